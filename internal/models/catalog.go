package models

import "time"

// CatalogItem is implemented by every approval-gated content type. The
// catalog repository, service and handler are generic over it so the
// visibility and approval policy exists exactly once.
type CatalogItem interface {
	GetID() uint
	IsApproved() bool
}

type Subject struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:50" validate:"required,max=50"`
	DisplayName string `json:"display_name" gorm:"not null;size:255" validate:"required,max=255"`
}

func (Subject) TableName() string {
	return "subjects"
}

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:50" validate:"required,max=50"`
	DisplayName string `json:"display_name" gorm:"not null;size:255" validate:"required,max=255"`
}

func (Category) TableName() string {
	return "categories"
}

type EBook struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Title     string  `json:"title" gorm:"not null;size:255" validate:"required,max=255"`
	Author    string  `json:"author" gorm:"not null;size:255" validate:"required,max=255"`
	SubjectID uint    `json:"subject_id" gorm:"not null;index" validate:"required"`
	Subject   Subject `json:"subject" gorm:"foreignKey:SubjectID" validate:"-"`

	// Opaque handles into the blob store; the service never reads them.
	FileURL      string `json:"file_url" gorm:"size:500"`
	ThumbnailURL string `json:"thumbnail_url" gorm:"size:500"`

	Approved  bool      `json:"approved" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (EBook) TableName() string { return "ebooks" }

func (b EBook) GetID() uint      { return b.ID }
func (b EBook) IsApproved() bool { return b.Approved }

type EJournal struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Title     string  `json:"title" gorm:"not null;size:255" validate:"required,max=255"`
	Author    string  `json:"author" gorm:"not null;size:255" validate:"required,max=255"`
	SubjectID uint    `json:"subject_id" gorm:"not null;index" validate:"required"`
	Subject   Subject `json:"subject" gorm:"foreignKey:SubjectID" validate:"-"`
	Year      *int    `json:"year" validate:"omitempty,min=1800,max=2100"`

	FileURL      string `json:"file_url" gorm:"size:500"`
	ThumbnailURL string `json:"thumbnail_url" gorm:"size:500"`

	Approved  bool      `json:"approved" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EJournal) TableName() string { return "ejournals" }

func (j EJournal) GetID() uint      { return j.ID }
func (j EJournal) IsApproved() bool { return j.Approved }

type Resource struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Title        string   `json:"title" gorm:"not null;size:255" validate:"required,max=255"`
	ThumbnailURL string   `json:"thumbnail_url" gorm:"size:500"`
	URL          string   `json:"url" gorm:"not null;size:500" validate:"required,url"`
	CategoryID   uint     `json:"category_id" gorm:"not null;index" validate:"required"`
	Category     Category `json:"category" gorm:"foreignKey:CategoryID" validate:"-"`

	Approved  bool      `json:"approved" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Resource) TableName() string { return "resources" }

func (r Resource) GetID() uint      { return r.ID }
func (r Resource) IsApproved() bool { return r.Approved }

type Newspaper struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Title        string `json:"title" gorm:"not null;size:255" validate:"required,max=255"`
	ThumbnailURL string `json:"thumbnail_url" gorm:"size:500"`
	URL          string `json:"url" gorm:"not null;size:500" validate:"required,url"`

	Approved  bool      `json:"approved" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Newspaper) TableName() string { return "newspapers" }

func (n Newspaper) GetID() uint      { return n.ID }
func (n Newspaper) IsApproved() bool { return n.Approved }
