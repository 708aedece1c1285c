package models

import "time"

// Profile is the persisted identity record for a user. The id is an opaque
// UUID stored as Mongo's _id; contact_info.email is unique across the
// collection (enforced by an index, see MongoProfileService).
type Profile struct {
	ID          string         `json:"id" bson:"_id"`
	Name        string         `json:"name" bson:"name"`
	Headline    string         `json:"headline" bson:"headline"`
	Pronouns    string         `json:"pronouns,omitempty" bson:"pronouns,omitempty"`
	About       string         `json:"about,omitempty" bson:"about,omitempty"`
	Location    *Location      `json:"location,omitempty" bson:"location,omitempty"`
	ContactInfo ContactInfo    `json:"contact_info" bson:"contact_info"`
	Experience  []Experience   `json:"experience" bson:"experience"`
	Analytics   map[string]any `json:"analytics,omitempty" bson:"analytics,omitempty"`
	Skills      []string       `json:"skills,omitempty" bson:"skills,omitempty"`
	Connections []string       `json:"connections" bson:"connections"`
	Posts       []string       `json:"posts" bson:"posts"`
	// Stored as provided. Known weakness, kept for compatibility with the
	// existing data set.
	Password  string    `json:"-" bson:"password"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Location struct {
	City    string `json:"city" bson:"city"`
	Country string `json:"country" bson:"country"`
}

type ContactInfo struct {
	Email   string `json:"email" bson:"email" validate:"required,email"`
	Website string `json:"website,omitempty" bson:"website,omitempty"`
}

// Experience is embedded in its profile and has no independent lifecycle.
type Experience struct {
	ID             string     `json:"experience_id" bson:"experience_id"`
	Title          string     `json:"title" bson:"title"`
	StartDate      time.Time  `json:"start_date" bson:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	CurrentCompany string     `json:"current_company,omitempty" bson:"current_company,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by login: the resolved (or freshly bootstrapped)
// profile plus a signed token for subsequent requests.
type AuthResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

type CreateProfileRequest struct {
	Name        string       `json:"name" validate:"required"`
	Headline    string       `json:"headline" validate:"required"`
	Pronouns    string       `json:"pronouns"`
	About       string       `json:"about"`
	Location    *Location    `json:"location"`
	ContactInfo ContactInfo  `json:"contact_info" validate:"required"`
	Experience  []Experience `json:"experience"`
	Skills      []string     `json:"skills"`
	Password    string       `json:"password" validate:"required"`
}

// UpdateProfileRequest carries a partial field set; nil means "leave as is".
type UpdateProfileRequest struct {
	Name        *string   `json:"name"`
	Headline    *string   `json:"headline"`
	Pronouns    *string   `json:"pronouns"`
	About       *string   `json:"about"`
	Location    *Location `json:"location"`
	Skills      *[]string `json:"skills"`
	Connections *[]string `json:"connections"`
	Posts       *[]string `json:"posts"`
}

// IsEmpty reports whether no field was supplied at all.
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Name == nil && r.Headline == nil && r.Pronouns == nil &&
		r.About == nil && r.Location == nil && r.Skills == nil &&
		r.Connections == nil && r.Posts == nil
}
