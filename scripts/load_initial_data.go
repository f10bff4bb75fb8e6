package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"community-portal-backend/internal/config"
	"community-portal-backend/internal/database"
	"community-portal-backend/internal/database/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structures that directly match DB schema
type OrganizationData struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	ThemeColor  string `yaml:"theme_color,omitempty"`
	Place       string `yaml:"place,omitempty"`
}

type RoleData struct {
	Name             string   `yaml:"name"`
	OrganizationName string   `yaml:"organization_name"`
	Description      string   `yaml:"description"`
	Permissions      []string `yaml:"permissions"`
	IsDefault        bool     `yaml:"is_default"`
}

type UserData struct {
	FullName         string `yaml:"full_name"`
	PhoneNumber      string `yaml:"phone_number"`
	Password         string `yaml:"password"`
	OrganizationName string `yaml:"organization_name"`
	RoleName         string `yaml:"role_name"`
}

// File structures
type OrganizationsFile struct {
	Organizations []OrganizationData `yaml:"organizations"`
}

type RolesFile struct {
	Roles []RoleData `yaml:"roles"`
}

type UsersFile struct {
	Users []UserData `yaml:"users"`
}

func main() {
	log.Println("Loading initial data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := ensureSystemTenant(db); err != nil {
		log.Fatalf("Failed to create system tenant: %v", err)
	}

	if err := loadDataFromYAMLFiles(db, "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Initial data loaded successfully")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

// ensureSystemTenant creates the sentinel system organization, the wildcard
// super admin role, and the super admin account. The account credentials
// come from SUPER_ADMIN_PHONE and SUPER_ADMIN_PASSWORD; without them the
// account is skipped, not defaulted.
func ensureSystemTenant(db *gorm.DB) error {
	org, _, err := createOrganization(db, OrganizationData{
		Name:        "System",
		Type:        models.OrganizationTypeSystem,
		Description: "Sentinel tenant owning the super admin role",
	})
	if err != nil {
		return err
	}

	role, _, err := createRole(db, RoleData{
		Name:             "Super Admin",
		OrganizationName: "System",
		Description:      "Grants every permission across all communities",
		Permissions:      []string{models.Wildcard},
	}, map[string]*models.Organization{"System": org})
	if err != nil {
		return err
	}

	phone := os.Getenv("SUPER_ADMIN_PHONE")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if phone == "" || password == "" {
		log.Println("SUPER_ADMIN_PHONE or SUPER_ADMIN_PASSWORD not set, skipping super admin account")
		return nil
	}

	_, created, err := createUser(db, UserData{
		FullName:         "Super Admin",
		PhoneNumber:      phone,
		Password:         password,
		OrganizationName: "System",
		RoleName:         "Super Admin",
	}, map[string]*models.Organization{"System": org}, map[string]*models.Role{"System/Super Admin": role})
	if err != nil {
		return err
	}
	if created {
		log.Println("Super admin account created")
	}
	return nil
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	organizations, err := loadOrganizations(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load organizations: %w", err)
	}

	roles, err := loadRoles(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load roles: %w", err)
	}

	users, err := loadUsers(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	// Create organizations first
	orgMap := make(map[string]*models.Organization)
	orgCreated := 0
	for _, orgData := range organizations {
		org, created, err := createOrganization(db, orgData)
		if err != nil {
			return fmt.Errorf("failed to create organization %s: %w", orgData.Name, err)
		}
		orgMap[orgData.Name] = org
		if created {
			orgCreated++
		}
	}
	log.Printf("Organizations: %d created, %d total", orgCreated, len(organizations))

	// Create roles
	roleMap := make(map[string]*models.Role)
	roleCreated := 0
	for _, roleData := range roles {
		role, created, err := createRole(db, roleData, orgMap)
		if err != nil {
			return fmt.Errorf("failed to create role %s: %w", roleData.Name, err)
		}
		roleMap[roleData.OrganizationName+"/"+roleData.Name] = role
		if created {
			roleCreated++
		}
	}
	log.Printf("Roles: %d created, %d total", roleCreated, len(roles))

	// Create users
	userCreated := 0
	for _, userData := range users {
		_, created, err := createUser(db, userData, orgMap, roleMap)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.FullName, err)
		}
		if created {
			userCreated++
		}
	}
	log.Printf("Users: %d created, %d total", userCreated, len(users))

	return nil
}

func loadOrganizations(dataDir string) ([]OrganizationData, error) {
	var allOrgs []OrganizationData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "organizations") {
			var file OrganizationsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allOrgs = append(allOrgs, file.Organizations...)
		}
		return nil
	})

	return allOrgs, err
}

func loadRoles(dataDir string) ([]RoleData, error) {
	var allRoles []RoleData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "roles") {
			var file RolesFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allRoles = append(allRoles, file.Roles...)
		}
		return nil
	})

	return allRoles, err
}

func loadUsers(dataDir string) ([]UserData, error) {
	var allUsers []UserData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "users") {
			var file UsersFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allUsers = append(allUsers, file.Users...)
		}
		return nil
	})

	return allUsers, err
}

func createOrganization(db *gorm.DB, orgData OrganizationData) (*models.Organization, bool, error) {
	var org models.Organization
	if err := db.Where("name = ?", orgData.Name).First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			org = models.Organization{
				Name:        orgData.Name,
				Type:        orgData.Type,
				Description: orgData.Description,
				ThemeColor:  orgData.ThemeColor,
				Place:       orgData.Place,
			}

			if err := db.Create(&org).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create organization: %w", err)
			}
			return &org, true, nil
		}
		return nil, false, fmt.Errorf("failed to query organization: %w", err)
	}

	return &org, false, nil
}

func createRole(db *gorm.DB, roleData RoleData, orgMap map[string]*models.Organization) (*models.Role, bool, error) {
	org := orgMap[roleData.OrganizationName]
	if org == nil {
		return nil, false, fmt.Errorf("organization %s not found for role %s", roleData.OrganizationName, roleData.Name)
	}

	var role models.Role
	if err := db.Where("name = ? AND organization_id = ?", roleData.Name, org.ID).First(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			role = models.Role{
				OrganizationID: org.ID,
				Name:           roleData.Name,
				Description:    roleData.Description,
				Permissions:    models.PermissionSet(roleData.Permissions),
				IsDefault:      roleData.IsDefault,
			}

			if err := db.Create(&role).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create role: %w", err)
			}
			return &role, true, nil
		}
		return nil, false, fmt.Errorf("failed to query role: %w", err)
	}

	return &role, false, nil
}

func createUser(db *gorm.DB, userData UserData, orgMap map[string]*models.Organization, roleMap map[string]*models.Role) (*models.User, bool, error) {
	org := orgMap[userData.OrganizationName]
	if org == nil {
		return nil, false, fmt.Errorf("organization %s not found for user %s", userData.OrganizationName, userData.FullName)
	}

	role := roleMap[userData.OrganizationName+"/"+userData.RoleName]
	if role == nil {
		return nil, false, fmt.Errorf("role %s not found for user %s", userData.RoleName, userData.FullName)
	}

	var user models.User
	if err := db.Where("phone_number = ?", userData.PhoneNumber).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			hash, err := bcrypt.GenerateFromPassword([]byte(userData.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, false, fmt.Errorf("failed to hash password: %w", err)
			}

			user = models.User{
				OrganizationID: org.ID,
				RoleID:         role.ID,
				FullName:       userData.FullName,
				PhoneNumber:    userData.PhoneNumber,
				PasswordHash:   string(hash),
			}

			if err := db.Create(&user).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create user: %w", err)
			}
			return &user, true, nil
		}
		return nil, false, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, false, nil
}
