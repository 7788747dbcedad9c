// Package easterntime converts wall-clock readings between US Eastern local
// time and UTC.
//
// The daylight saving rule is computed per calendar year (second Sunday of
// March 02:00 to first Sunday of November 02:00) rather than looked up in
// the tz database, so results do not depend on the tzdata installed on the
// host. All functions are pure and safe for concurrent use.
package easterntime
