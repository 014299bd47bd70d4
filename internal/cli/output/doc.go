// Package output renders command results as a table, JSON or YAML.
//
// Values that implement Tabular control their own table layout. Other
// structs, slices and maps are laid out by reflection using their json
// tags as column names.
package output
