package bible

// Canonical partition of the catalog.
// ENUM(OT, NT)
type Testament int
