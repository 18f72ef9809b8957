package models

import "time"

const BookTable = "lib_books"
const CategoryTable = "lib_categories"
const BookCategoryTable = "lib_book_categories"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"uniqueIndex;size:100;not null" json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	PublicationDate string     `gorm:"size:30" json:"publicationDate"`
	ISBN            string     `gorm:"size:20;uniqueIndex;not null" json:"isbn"`
	Pages           int        `json:"pages"`
	Author          string     `gorm:"size:255" json:"author"`
	Description     string     `gorm:"type:text" json:"description"`
	Image           string     `gorm:"size:255" json:"image"` // URL of the cover upload
	File            string     `gorm:"size:255" json:"file"`  // URL of the e-book upload
	Qty             int        `gorm:"not null;default:0" json:"qty"`
	Categories      []Category `gorm:"many2many:lib_book_categories" json:"categories"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (Category) TableName() string { return CategoryTable }
func (Book) TableName() string     { return BookTable }
