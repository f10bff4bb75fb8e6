package repository

import (
	"fmt"

	"community-portal-backend/internal/database/models"
	apperrors "community-portal-backend/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ElectionRepository handles database operations for elections, candidates
// and votes. Votes and candidates both reference elections, and votes
// additionally reference candidates, so every delete here cascades in
// votes -> candidates -> election order.
type ElectionRepository struct {
	db *gorm.DB
}

// NewElectionRepository creates a new election repository
func NewElectionRepository(db *gorm.DB) *ElectionRepository {
	return &ElectionRepository{db: db}
}

// Create creates a new election together with its inline candidates
func (r *ElectionRepository) Create(election *models.Election) error {
	return r.db.Create(election).Error
}

// GetByID retrieves an election by ID within the given organization scope.
// An election belonging to another organization is indistinguishable from
// a missing one: both return gorm.ErrRecordNotFound.
func (r *ElectionRepository) GetByID(id, orgID uuid.UUID) (*models.Election, error) {
	var election models.Election
	err := r.db.Preload("Candidates", func(db *gorm.DB) *gorm.DB {
		return db.Order("ballot_order ASC")
	}).First(&election, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, err
	}
	return &election, nil
}

// List retrieves elections of an organization with optional status and
// title/description filters
func (r *ElectionRepository) List(orgID uuid.UUID, status models.ElectionStatus, query string, limit, offset int) ([]models.Election, int64, error) {
	var elections []models.Election
	var total int64

	build := func(db *gorm.DB) *gorm.DB {
		db = db.Where("organization_id = ?", orgID)
		if status != "" {
			db = db.Where("status = ?", status)
		}
		if query != "" {
			pattern := "%" + query + "%"
			db = db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
		}
		return db
	}

	if err := build(r.db.Model(&models.Election{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := build(r.db).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("ballot_order ASC")
		}).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&elections).Error
	if err != nil {
		return nil, 0, err
	}

	return elections, total, nil
}

// Update updates an election
func (r *ElectionRepository) Update(election *models.Election) error {
	return r.db.Save(election).Error
}

// DeleteCascade deletes an election and everything referencing it:
// votes first, then candidates, then the election row itself.
func (r *ElectionRepository) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Vote{}, "election_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Candidate{}, "election_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Election{}, "id = ?", id).Error
	})
}

// AddCandidate appends a candidate to an election's ballot. The ballot
// order is max(existing order) + 1, assigned inside the transaction so
// concurrent appends cannot collide; order is never renumbered on delete.
func (r *ElectionRepository) AddCandidate(electionID uuid.UUID, candidate *models.Candidate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder *int
		err := tx.Model(&models.Candidate{}).
			Where("election_id = ?", electionID).
			Select("MAX(ballot_order)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}

		next := 0
		if maxOrder != nil {
			next = *maxOrder + 1
		}

		candidate.ElectionID = electionID
		candidate.Order = next
		return tx.Create(candidate).Error
	})
}

// GetCandidate retrieves one candidate of an election
func (r *ElectionRepository) GetCandidate(electionID, candidateID uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.First(&candidate, "id = ? AND election_id = ?", candidateID, electionID).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ListCandidates retrieves an election's candidates in ballot order
func (r *ElectionRepository) ListCandidates(electionID uuid.UUID) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.Where("election_id = ?", electionID).Order("ballot_order ASC").Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// UpdateCandidate updates a candidate
func (r *ElectionRepository) UpdateCandidate(candidate *models.Candidate) error {
	return r.db.Save(candidate).Error
}

// DeleteCandidateCascade deletes a candidate and, first, every vote
// referencing it, so no orphaned vote rows remain.
func (r *ElectionRepository) DeleteCandidateCascade(candidateID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Vote{}, "candidate_id = ?", candidateID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Candidate{}, "id = ?", candidateID).Error
	})
}

// FindVotes retrieves all votes a voter has cast in an election
func (r *ElectionRepository) FindVotes(voterID, electionID uuid.UUID) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.Where("voter_id = ? AND election_id = ?", voterID, electionID).Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// ListVotes retrieves all votes of an election
func (r *ElectionRepository) ListVotes(electionID uuid.UUID) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.Where("election_id = ?", electionID).Order("created_at ASC").Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// CreateVotes inserts one ballot atomically: either every row lands or
// none do. The transaction takes a per-(voter, election) advisory lock and
// re-checks for prior votes, so two concurrent ballots from the same voter
// cannot both pass the "already voted" check; the unique index on
// (voter_id, election_id, candidate_id) is the last-resort backstop.
func (r *ElectionRepository) CreateVotes(votes []models.Vote) error {
	if len(votes) == 0 {
		return nil
	}
	voterID := votes[0].VoterID
	electionID := votes[0].ElectionID

	return r.db.Transaction(func(tx *gorm.DB) error {
		lockKey := fmt.Sprintf("vote:%s:%s", voterID, electionID)
		if err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, lockKey).Error; err != nil {
			return err
		}

		var existing int64
		err := tx.Model(&models.Vote{}).
			Where("voter_id = ? AND election_id = ?", voterID, electionID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.ErrAlreadyVoted
		}

		return tx.Create(&votes).Error
	})
}

// CountVotesByElection counts all votes cast in an election
func (r *ElectionRepository) CountVotesByElection(electionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).Where("election_id = ?", electionID).Count(&count).Error
	return count, err
}

// CountVotesByCandidate counts the votes one candidate received
func (r *ElectionRepository) CountVotesByCandidate(candidateID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).Where("candidate_id = ?", candidateID).Count(&count).Error
	return count, err
}
