package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SimGroup is the ministry/age cohort a member belongs to.
type SimGroup string

const (
	SimKids        SimGroup = "Kids"
	SimYouth       SimGroup = "Youth"
	SimYoungAdults SimGroup = "Young Adults"
	SimAdults      SimGroup = "Adults"
	SimSeniors     SimGroup = "Seniors"
)

// SimGroups lists every group in display order.
var SimGroups = []SimGroup{SimKids, SimYouth, SimYoungAdults, SimAdults, SimSeniors}

var simGroupAliases = map[string]SimGroup{
	"kids":         SimKids,
	"youth":        SimYouth,
	"young adults": SimYoungAdults,
	"youngadults":  SimYoungAdults,
	"yoads":        SimYoungAdults,
	"adults":       SimAdults,
	"wow":          SimAdults,
	"adults/wow":   SimAdults,
	"seniors":      SimSeniors,
	"dig":          SimSeniors,
	"seniors/dig":  SimSeniors,
}

// ParseSimGroup maps a group name or one of its aliases (case-insensitive) to the canonical group.
func ParseSimGroup(s string) (SimGroup, bool) {
	g, ok := simGroupAliases[strings.ToLower(strings.TrimSpace(s))]
	return g, ok
}

// Member is a church member on the roster.
// swagger:model Member
type Member struct {
	ID            string    `json:"id" db:"id"`
	FullName      string    `json:"full_name" db:"full_name" validate:"required,max=200"`
	AreaChurch    string    `json:"area_church" db:"area_church" validate:"required,max=200"`
	SimGroup      SimGroup  `json:"sim_group" db:"sim_group" validate:"required,simgroup"`
	ContactNumber string    `json:"contact_number" db:"contact_number" validate:"omitempty,ph_contact"`
	EmailAddress  string    `json:"email_address" db:"email_address" validate:"omitempty,email"`
	DateAdded     time.Time `json:"date_added" db:"date_added"`
}

var contactNumberRegex = regexp.MustCompile(`^(\+63|0)\d{10}$`)

var memberValidate = newMemberValidator()

func newMemberValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("simgroup", func(fl validator.FieldLevel) bool {
		_, ok := ParseSimGroup(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("ph_contact", func(fl validator.FieldLevel) bool {
		return contactNumberRegex.MatchString(fl.Field().String())
	})
	return v
}

// Normalize trims text fields, lower-cases the email and maps the group alias to its canonical name.
func (m *Member) Normalize() {
	m.FullName = strings.TrimSpace(m.FullName)
	m.AreaChurch = strings.TrimSpace(m.AreaChurch)
	m.ContactNumber = strings.TrimSpace(m.ContactNumber)
	m.EmailAddress = strings.ToLower(strings.TrimSpace(m.EmailAddress))
	if g, ok := ParseSimGroup(string(m.SimGroup)); ok {
		m.SimGroup = g
	}
}

// Validate checks the member's fields. The returned error wraps ErrValidation.
func (m *Member) Validate() error {
	err := memberValidate.Struct(m)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "simgroup":
			msgs = append(msgs, fe.Field()+" must be one of Kids, Youth, Young Adults, Adults, Seniors")
		case "ph_contact":
			msgs = append(msgs, fe.Field()+" must look like +63XXXXXXXXXX or 0XXXXXXXXXX")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// MemberEmailFilter selects members for recipient resolution. All overrides the other fields;
// otherwise members matching any ID or any group are returned.
type MemberEmailFilter struct {
	All       bool
	IDs       []string
	SimGroups []SimGroup
}

// Empty reports whether the filter can match nothing.
func (f MemberEmailFilter) Empty() bool {
	return !f.All && len(f.IDs) == 0 && len(f.SimGroups) == 0
}

// MemberRepository defines the interface for member storage
type MemberRepository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	List(ctx context.Context, params PaginationParams) ([]*Member, int, error)
	ListBySimGroups(ctx context.Context, groups []SimGroup) ([]*Member, error)
	// ListEmails returns the non-empty email addresses of matching members ordered by full name.
	ListEmails(ctx context.Context, filter MemberEmailFilter) ([]string, error)
	CountBySimGroup(ctx context.Context) (map[SimGroup]int, error)
}

// SimGroupSummary is one group with its members, as shown on the invitation picker.
// swagger:model SimGroupSummary
type SimGroupSummary struct {
	Name    SimGroup  `json:"name"`
	Count   int       `json:"count"`
	Members []*Member `json:"members"`
}

// MemberService defines the business logic for the member roster.
type MemberService interface {
	CreateMember(ctx context.Context, member *Member) error
	GetMember(ctx context.Context, id string) (*Member, error)
	ListMembers(ctx context.Context, params PaginationParams) ([]*Member, int, error)
	ListSimGroups(ctx context.Context) ([]*SimGroupSummary, error)
}
