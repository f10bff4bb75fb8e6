package models

import (
	"time"

	"github.com/google/uuid"
)

// ElectionStatus is the lifecycle state of an election. How the status is
// set is an administrative concern; what it implies for voting is enforced
// by the election service.
type ElectionStatus string

const (
	ElectionStatusDraft  ElectionStatus = "draft"
	ElectionStatusActive ElectionStatus = "active"
	ElectionStatusClosed ElectionStatus = "closed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s ElectionStatus) Valid() bool {
	switch s {
	case ElectionStatusDraft, ElectionStatusActive, ElectionStatusClosed:
		return true
	}
	return false
}

// Election represents an organization-scoped vote with an ordered list of
// candidates. MaxVotes is only meaningful when AllowMultiple is true.
type Election struct {
	BaseModel
	OrganizationID uuid.UUID      `json:"organization_id" gorm:"type:uuid;not null;index"`
	Title          string         `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description    string         `json:"description" gorm:"type:text"`
	Type           string         `json:"type" gorm:"not null;size:50" validate:"required,max=50"`
	StartDate      time.Time      `json:"start_date" gorm:"not null"`
	EndDate        time.Time      `json:"end_date" gorm:"not null"`
	AllowMultiple  bool           `json:"allow_multiple" gorm:"not null;default:false"`
	MaxVotes       *int           `json:"max_votes,omitempty"`
	IsAnonymous    bool           `json:"is_anonymous" gorm:"not null;default:false"`
	Status         ElectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedByID    uuid.UUID      `json:"created_by_id" gorm:"type:uuid"`
	CreatedByName  string         `json:"created_by_name" gorm:"size:200"`

	// Relationships
	Candidates []Candidate `json:"candidates,omitempty" gorm:"foreignKey:ElectionID"`
	Votes      []Vote      `json:"votes,omitempty" gorm:"foreignKey:ElectionID"`
}

// TableName returns the table name for Election
func (Election) TableName() string {
	return "elections"
}

// WindowContains reports whether t lies within [StartDate, EndDate].
func (e *Election) WindowContains(t time.Time) bool {
	return !t.Before(e.StartDate) && !t.After(e.EndDate)
}

// Candidate represents one ballot entry of an election. Order defines
// ballot display order: unique per election, assigned monotonically on
// insert and never renumbered on deletion.
type Candidate struct {
	BaseModel
	ElectionID  uuid.UUID `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_candidates_election_order"`
	Name        string    `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description string    `json:"description" gorm:"type:text"`
	PhotoURL    string    `json:"photo_url,omitempty" gorm:"size:500"`
	Position    string    `json:"position,omitempty" gorm:"size:100"`
	Order       int       `json:"order" gorm:"column:ballot_order;not null;uniqueIndex:idx_candidates_election_order"`

	// Relationships
	Votes []Vote `json:"votes,omitempty" gorm:"foreignKey:CandidateID"`
}

// TableName returns the table name for Candidate
func (Candidate) TableName() string {
	return "candidates"
}

// Vote represents one voter's selection of one candidate in an election.
// The unique index backs the one-ballot rule: a voter can never hold two
// rows for the same candidate, and the ballot-level check-then-insert runs
// inside a transaction on top of it.
type Vote struct {
	BaseModel
	VoterID     uuid.UUID `json:"voter_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_voter_election_candidate"`
	ElectionID  uuid.UUID `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_votes_voter_election_candidate"`
	CandidateID uuid.UUID `json:"candidate_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_votes_voter_election_candidate"`
	VoterName   string    `json:"voter_name" gorm:"size:200"`
}

// TableName returns the table name for Vote
func (Vote) TableName() string {
	return "votes"
}
