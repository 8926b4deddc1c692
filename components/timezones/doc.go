// Package timezones provides the IANA zone list operators pick their local
// zone from, a resolver that turns a zone name into a *time.Location for the
// local to UTC conversion of schedule times, and a small net/http handler that
// returns JSON options for the zone picker.
//
// The default handler responds to GET and HEAD requests and supports query and
// limit parameters to filter results. With an empty query it lists the zones
// of the supported regions (Hong Kong, London, New York) first. The backing
// data is loaded from the embedded list under data/iana_timezones.txt.
package timezones
