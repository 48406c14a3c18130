package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleAdministrator RoleName = "Administrator"
	RoleSeller        RoleName = "Seller"
	RoleCustomer      RoleName = "Customer"

	InvoiceActive   InvoiceStatus = "Active"
	InvoiceInactive InvoiceStatus = "Inactive"
)

type RoleName string
type InvoiceStatus string

type Customer struct {
	ID             int64
	DocumentNumber string
	FullName       string
	Phone          *string
	Email          *string
	Address        *string
	UserID         *int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Product struct {
	ID          int64
	Code        string
	Name        string
	Description *string
	UnitPrice   decimal.Decimal
	Stock       int
	MinStock    *int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock reports whether the product sits at or below its minimum
// threshold. Products without a configured threshold use a fixed
// low-water mark of 5 units.
func (p Product) LowStock() bool {
	min := 5
	if p.MinStock != nil {
		min = *p.MinStock
	}
	return p.Stock <= min
}

type Invoice struct {
	ID               int64
	InvoiceNumber    string
	InvoiceDate      time.Time
	CustomerID       int64
	CustomerName     string
	CustomerDocument string
	SellerID         int64
	SellerName       string
	Subtotal         decimal.Decimal
	TaxIva           decimal.Decimal
	Total            decimal.Decimal
	Notes            *string
	Status           InvoiceStatus
	Details          []InvoiceDetail
	Payments         []InvoicePayment
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type InvoiceDetail struct {
	ID          int64
	InvoiceID   int64
	ProductID   int64
	ProductCode string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

type InvoicePayment struct {
	ID                int64
	InvoiceID         int64
	PaymentMethodID   int64
	PaymentMethodName string
	Amount            decimal.Decimal
}

type PaymentMethod struct {
	ID       int64
	Name     string
	IsActive bool
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	IsActive     bool
	LastLoginAt  *time.Time
	Roles        []RoleName
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins the optional name parts, falling back to the username.
func (u User) FullName() string {
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// HasRole reports whether the user carries any of the given roles.
func (u User) HasRole(roles ...RoleName) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type Role struct {
	ID          int64
	Name        RoleName
	Description *string
}

type RefreshToken struct {
	ID              int64
	UserID          int64
	Token           string
	ExpiresAt       time.Time
	CreatedAt       time.Time
	RevokedAt       *time.Time
	IsRevoked       bool
	ReplacedByToken *string
}

func (t RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t RefreshToken) IsUsable(now time.Time) bool {
	return !t.IsRevoked && !t.IsExpired(now)
}

type SystemSetting struct {
	ID        int64
	Key       string
	Value     string
	DataType  string
	IsSystem  bool
	UpdatedBy *int64
	UpdatedAt *time.Time
}

type AuditEntry struct {
	ID        int64
	Entity    string
	EntityID  *int64
	Action    string
	Actor     *int64
	Detail    string
	CreatedAt time.Time
}
