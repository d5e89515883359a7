// Package models contains the GORM persistence models. Domain aggregates carry
// no ORM tags; each model converts to and from its aggregate with ToDomain and
// a *ModelFromDomain constructor.
package models
