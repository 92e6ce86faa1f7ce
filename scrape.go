// Package scrape extracts structured records from HTML pages by applying
// named CSS selectors inside repeated container elements.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package scrape
