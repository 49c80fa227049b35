package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidSalary   = errors.New("invalid salary")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrEmptyEmail      = errors.New("empty email")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyPassword   = errors.New("empty password")
)

type (
	// Date is a calendar date. It marshals as "2006-01-02".
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Date        Date      `json:"date"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Icon  string `json:"icon,omitempty"`
	}

	UserProfile struct {
		ID        string    `json:"id"`
		Salary    Money     `json:"salary"`
		Currency  string    `json:"currency"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// User is the stored identity record. The password is kept in plaintext;
	// this is not a real auth system and is documented as such.
	User struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	// Session is the public slice of a User, safe to return to clients.
	Session struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
)

// DefaultCategories is the fixed reference set seeded into every new
// namespace. Not user-editable in this version.
var DefaultCategories = []Category{
	{ID: "1", Name: "Food & Dining", Color: "#ef4444", Icon: "🍕"},
	{ID: "2", Name: "Transportation", Color: "#3b82f6", Icon: "🚗"},
	{ID: "3", Name: "Shopping", Color: "#8b5cf6", Icon: "🛍️"},
	{ID: "4", Name: "Entertainment", Color: "#06b6d4", Icon: "🎬"},
	{ID: "5", Name: "Bills & Utilities", Color: "#f59e0b", Icon: "💡"},
	{ID: "6", Name: "Healthcare", Color: "#10b981", Icon: "🏥"},
	{ID: "7", Name: "Education", Color: "#6366f1", Icon: "📚"},
	{ID: "8", Name: "Other", Color: "#6b7280", Icon: "📦"},
}

// Currencies is the accepted currency code set for profiles.
var Currencies = []string{"USD", "EUR", "GBP", "JPY", "INR", "CAD", "AUD"}

func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

const dateLayout = "2006-01-02"

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (p UserProfile) Validate() error {
	if p.Salary.Cents < 0 {
		return ErrInvalidSalary
	}
	if !ValidCurrency(p.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if email := strings.TrimSpace(u.Email); email == "" || !strings.Contains(email, "@") {
		return ErrEmptyEmail
	}
	if u.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// Session returns the client-visible view of the user.
func (u User) Session() Session {
	return Session{ID: u.ID, Email: u.Email, Name: u.Name}
}
