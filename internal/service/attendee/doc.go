// Package attendee implements attendee record lifecycle management.
//
// The service layer owns identity semantics: pass IDs are unique, emails are
// normalized before any lookup, and writes converge on one record per person
// whichever key the caller arrives with. It depends on the repository
// interface defined in this package and should never import from api/.
//
// The production repository implementation lives in repository/dynamo/.
package attendee
