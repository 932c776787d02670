// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
//  1. Domain entities carry no GORM tags
//  2. Persistence models carry the GORM annotations and table mappings
//  3. Mappers (see mapper.go) convert between the two shapes
//  4. Repositories operate on persistence models only
//
// Structure:
//   - base.go: the audit columns shared by every table
//   - identity.go: users, roles, user_roles, refresh_tokens
//   - inventory.go: products, storage_rooms, suppliers, stock_actions
//   - mapper.go: nil-safe mappers between models and domain entities
package models
