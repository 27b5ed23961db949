package models

import "time"

// IDCard is derived state: it exists iff the owning user is active and has a
// non-empty student ID, and mirrors the user's profile fields at the time of
// the last user save.
type IDCard struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	IDNumber        string          `json:"id_number" gorm:"uniqueIndex;not null;size:255"`
	Faculty         string          `json:"faculty" gorm:"size:255"`
	Department      string          `json:"department" gorm:"size:255"`
	StudentCategory StudentCategory `json:"student_category" gorm:"size:50"`

	IssuedDate time.Time  `json:"issued_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

func (IDCard) TableName() string {
	return "id_cards"
}

// CardDetails is the presentation shape for an issued card.
type CardDetails struct {
	Name            string          `json:"name"`
	StudentID       string          `json:"student_id"`
	Faculty         string          `json:"faculty"`
	Department      string          `json:"department"`
	StudentCategory StudentCategory `json:"student_category"`
	IssuedDate      time.Time       `json:"issued_date"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
}

func (c *IDCard) Details() CardDetails {
	return CardDetails{
		Name:            c.User.FullName(),
		StudentID:       c.IDNumber,
		Faculty:         c.Faculty,
		Department:      c.Department,
		StudentCategory: c.StudentCategory,
		IssuedDate:      c.IssuedDate,
		ExpiryDate:      c.ExpiryDate,
	}
}
