package hefs

import (
	"reflect"
	"strconv"
)

// Entity is implemented by every cached entity type.
type Entity interface {
	EntityID() string
}

// Resolvable is either a raw identifier or a live entity. Managers accept it
// wherever a lookup may be given one or the other.
type Resolvable[E Entity] struct {
	id     string
	entity E
	live   bool
}

// IDOf returns a resolvable holding a raw identifier.
func IDOf[E Entity](id string) Resolvable[E] {
	return Resolvable[E]{id: id}
}

// Ref returns a resolvable holding a live entity. A nil entity gives an
// empty resolvable that resolves to nothing.
func Ref[E Entity](entity E) Resolvable[E] {
	if isNil(entity) {
		return Resolvable[E]{}
	}

	return Resolvable[E]{id: entity.EntityID(), entity: entity, live: true}
}

func isNil[E Entity](entity E) bool {
	value := reflect.ValueOf(entity)
	if !value.IsValid() {
		return true
	}

	switch value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return value.IsNil()
	default:
		return false
	}
}

// Key returns the identifier used for cache lookups.
func (r Resolvable[E]) Key() string {
	return r.id
}

// Entity returns the live entity, if this resolvable holds one.
func (r Resolvable[E]) Entity() (E, bool) {
	return r.entity, r.live
}

// GuildID returns a resolvable for a guild identifier.
func GuildID(id string) Resolvable[*Guild] {
	return IDOf[*Guild](id)
}

// ProjectID returns a resolvable for a project identifier.
func ProjectID(id string) Resolvable[*Project] {
	return IDOf[*Project](id)
}

// ProjectNumber returns a resolvable for a numeric project identifier.
func ProjectNumber(id int64) Resolvable[*Project] {
	return IDOf[*Project](strconv.FormatInt(id, 10))
}

// SubmissionID returns a resolvable for a submission identifier.
func SubmissionID(id string) Resolvable[*Submission] {
	return IDOf[*Submission](id)
}

// SettingID returns a resolvable for a setting property name.
func SettingID(property string) Resolvable[*Setting] {
	return IDOf[*Setting](property)
}
