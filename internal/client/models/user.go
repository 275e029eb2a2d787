// Package models defines the client-side data models exchanged with the
// UrGuide API.
package models

// User is the server-owned user record. The client keeps a copy for display
// and editing; the server copy is authoritative after every round trip.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	ZipCode   string `json:"zip_code,omitempty"`
	Hobbies   string `json:"hobbies,omitempty"`
	Interests string `json:"interests,omitempty"`
}

// Credentials is the body of POST /login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileData holds the editable fields of a user record.
type ProfileData struct {
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	ZipCode   string `json:"zip_code,omitempty"`
	Hobbies   string `json:"hobbies,omitempty"`
	Interests string `json:"interests,omitempty"`
}

// SignupData is the body of POST /signup: credentials plus initial profile.
type SignupData struct {
	Username string `json:"username"`
	ProfileData
}

// ProfileFromUser copies the editable fields of u. The password is never
// rendered back, so it is left empty.
func ProfileFromUser(u *User) ProfileData {
	if u == nil {
		return ProfileData{}
	}
	return ProfileData{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		City:      u.City,
		Country:   u.Country,
		ZipCode:   u.ZipCode,
		Hobbies:   u.Hobbies,
		Interests: u.Interests,
	}
}

// Fields returns the profile as a name/value list in form order.
func (p ProfileData) Fields() []Field {
	return []Field{
		{Name: "firstName", Label: "First name", Value: p.FirstName},
		{Name: "lastName", Label: "Last name", Value: p.LastName},
		{Name: "email", Label: "Email", Value: p.Email},
		{Name: "city", Label: "City", Value: p.City},
		{Name: "country", Label: "Country", Value: p.Country},
		{Name: "zip_code", Label: "Zip code", Value: p.ZipCode},
		{Name: "hobbies", Label: "Hobbies", Value: p.Hobbies},
		{Name: "interests", Label: "Interests", Value: p.Interests},
	}
}

// Set assigns the field with the given JSON name. It reports false for
// unknown names.
func (p *ProfileData) Set(name, value string) bool {
	switch name {
	case "password":
		p.Password = value
	case "firstName":
		p.FirstName = value
	case "lastName":
		p.LastName = value
	case "email":
		p.Email = value
	case "city":
		p.City = value
	case "country":
		p.Country = value
	case "zip_code":
		p.ZipCode = value
	case "hobbies":
		p.Hobbies = value
	case "interests":
		p.Interests = value
	default:
		return false
	}
	return true
}

// Field is a single editable profile field.
type Field struct {
	Name  string
	Label string
	Value string
}
