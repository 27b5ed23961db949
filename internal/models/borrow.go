package models

import "time"

// BorrowBook links a user to a manually entered book title. Visibility is
// scoped to the owner; staff see every record.
type BorrowBook struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	BookTitle  string     `json:"book_title" gorm:"not null;size:255" validate:"required,max=255"`
	BorrowDate time.Time  `json:"borrow_date"`
	ReturnDate *time.Time `json:"return_date"`
}

func (BorrowBook) TableName() string {
	return "borrow_books"
}
