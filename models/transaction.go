package models

import (
	"strings"
	"time"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

type Source string

const (
	SourceManual Source = "manual"
	SourceImport Source = "import"
	SourceSync   Source = "sync"
)

// Transaction amounts are always stored positive; Type carries the sign.
type Transaction struct {
	ID        string          `json:"id" bson:"_id"`
	UserID    string          `json:"-" bson:"userId"`
	Type      TransactionType `json:"type" bson:"type"`
	Amount    float64         `json:"amount" bson:"amount"`
	Category  string          `json:"category" bson:"category"`
	Date      time.Time       `json:"date" bson:"date"`
	Note      string          `json:"note,omitempty" bson:"note,omitempty"`
	Source    Source          `json:"source" bson:"source"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Signed returns the amount with income positive and expenses negative.
func (t Transaction) Signed() float64 {
	if t.Type == Expense {
		return -t.Amount
	}
	return t.Amount
}

// TransactionInput is the create payload.
type TransactionInput struct {
	Type     TransactionType `json:"type" validate:"required,oneof=income expense"`
	Amount   float64         `json:"amount" validate:"gt=0"`
	Category string          `json:"category" validate:"min=1,max=100"`
	Date     string          `json:"date" validate:"isodate"`
	Note     string          `json:"note,omitempty" validate:"max=500"`
	Source   Source          `json:"source,omitempty" validate:"omitempty,oneof=manual import sync"`
}

// Normalize trims free text and applies defaults. It never fails; Validate
// reports what is still wrong afterwards.
func (in *TransactionInput) Normalize() {
	in.Category = strings.TrimSpace(in.Category)
	in.Note = strings.TrimSpace(in.Note)
	in.Date = strings.TrimSpace(in.Date)
	if in.Source == "" {
		in.Source = SourceManual
	}
}

func (in TransactionInput) Validate() error {
	return Validate("Invalid transaction data", in)
}

// DateOr parses Date, falling back to now when it is empty.
func (in TransactionInput) DateOr(now time.Time) time.Time {
	if in.Date == "" {
		return now.UTC()
	}
	t, err := ParseDate(in.Date)
	if err != nil {
		return now.UTC()
	}
	return t
}

// TransactionPatch is a partial update; nil fields are left untouched.
// An empty Note clears the note.
type TransactionPatch struct {
	Type     *TransactionType `json:"type,omitempty" validate:"omitnil,oneof=income expense"`
	Amount   *float64         `json:"amount,omitempty" validate:"omitnil,gt=0"`
	Category *string          `json:"category,omitempty" validate:"omitnil,min=1,max=100"`
	Date     *string          `json:"date,omitempty" validate:"omitnil,min=1,isodate"`
	Note     *string          `json:"note,omitempty" validate:"omitnil,max=500"`
}

func (p *TransactionPatch) Normalize() {
	trimPtr(p.Category)
	trimPtr(p.Note)
	trimPtr(p.Date)
}

func (p TransactionPatch) Validate() error {
	return Validate("Invalid transaction data", p)
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p.Type == nil && p.Amount == nil && p.Category == nil && p.Date == nil && p.Note == nil
}

// ParsedDate returns the patch date, if any. Validate must have passed.
func (p TransactionPatch) ParsedDate() *time.Time {
	if p.Date == nil {
		return nil
	}
	t, err := ParseDate(*p.Date)
	if err != nil {
		return nil
	}
	return &t
}

// Apply copies the set fields onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if d := p.ParsedDate(); d != nil {
		t.Date = *d
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
}

// TransactionFilter narrows a transaction listing. Zero values mean "any".
type TransactionFilter struct {
	Type      TransactionType
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Matches applies the filter to a single record (used by the memory store
// and by the aggregator when slicing already-loaded data).
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	return true
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
