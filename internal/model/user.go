// Package model defines the data structures shared across the application.
package model

import "time"

// User is a journal owner. The nickname typed at login is the only identity:
// the first login with a nickname creates the user, later logins reuse it.
//
// Avatar and GuardianImage hold either a data URL or an object-storage URL,
// depending on the configured photo backend. Both may be empty.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar,omitempty"`
	GuardianImage string    `json:"guardianImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ThemeColor is the accent color the client paints its chrome with.
type ThemeColor string

const (
	ThemeOrange  ThemeColor = "orange"
	ThemeEmerald ThemeColor = "emerald"
	ThemeBlue    ThemeColor = "blue"
	ThemeRose    ThemeColor = "rose"
	ThemeViolet  ThemeColor = "violet"
	ThemeAmber   ThemeColor = "amber"
	ThemeIndigo  ThemeColor = "indigo"
	ThemeTeal    ThemeColor = "teal"
)

// ThemeColors lists every accepted theme in display order.
var ThemeColors = []ThemeColor{
	ThemeOrange, ThemeEmerald, ThemeBlue, ThemeRose,
	ThemeViolet, ThemeAmber, ThemeIndigo, ThemeTeal,
}

func (c ThemeColor) Valid() bool {
	for _, t := range ThemeColors {
		if t == c {
			return true
		}
	}
	return false
}

// NurtureType picks which companion the garden renders.
type NurtureType string

const (
	NurtureTree NurtureType = "tree"
	NurturePet  NurtureType = "pet"
)

func (n NurtureType) Valid() bool {
	return n == NurtureTree || n == NurturePet
}

// GuardianKind is the animal drawn for a generated guardian image.
type GuardianKind string

const (
	GuardianCat GuardianKind = "cat"
	GuardianDog GuardianKind = "dog"
)

func (k GuardianKind) Valid() bool {
	return k == GuardianCat || k == GuardianDog
}

// Preferences are the per-user display settings.
type Preferences struct {
	Theme       ThemeColor  `json:"theme"`
	NurtureType NurtureType `json:"nurtureType"`
}

// DefaultPreferences is what a user sees before changing anything.
var DefaultPreferences = Preferences{
	Theme:       ThemeOrange,
	NurtureType: NurturePet,
}
