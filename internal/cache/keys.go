package cache

import "strings"

// Namespace groups cache keys that are invalidated together.
type Namespace string

// NamespaceStudents holds every cached student listing variant.
const NamespaceStudents Namespace = "students"

// Discriminator distinguishes logical query variants within a namespace.
type Discriminator string

// DiscriminatorAll identifies the unfiltered listing.
const DiscriminatorAll Discriminator = "all"

// FilterDiscriminator derives the discriminator for a name-filtered listing.
// The empty filter maps to DiscriminatorAll so both read paths share one key
// construction.
func FilterDiscriminator(filter string) Discriminator {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return DiscriminatorAll
	}
	return Discriminator("filter:" + strings.ToLower(filter))
}

// Key builds the storage key for a discriminator within the namespace.
func (n Namespace) Key(d Discriminator) string {
	return string(n) + ":" + string(d)
}

// Prefix returns the key prefix shared by every entry of the namespace.
func (n Namespace) Prefix() string {
	return string(n) + ":"
}
