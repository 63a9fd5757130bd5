// Package definition builds and validates ServiceDefinitions from service
// struct declarations.
//
// A service is declared as a struct whose exported fields are Op[I, O]
// values; Build scans the struct once, merges definitions contributed by
// embedded services under strict no-override rules, validates the result
// and registers it.
package definition
