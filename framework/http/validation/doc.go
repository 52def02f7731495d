// Package validation checks flat string input against pipe-separated rules.
//
//	v := validation.Make(map[string]string{
//	    "name":  "database.host",
//	    "type":  "int",
//	    "value": "5432",
//	}, validation.Rules{
//	    "name":  `required|max:255|regex:^[^%\s]+$`,
//	    "type":  "nullable|in:string,int,float,bool,json",
//	    "value": "required",
//	})
//
//	if v.Fails() {
//	    // JSON: {"errors": {"field": ["message1", "message2"]}}
//	}
//
// # Available Rules
//
//   - required      field must be present and non-empty
//   - nullable      an empty value skips the remaining rules
//   - min:n, max:n  length in UTF-8 characters
//   - numeric       parseable as a float
//   - integer       parseable as an integer
//   - boolean       true/false/1/0/yes/no (case-insensitive)
//   - json          valid JSON text
//   - in:a,b,c      value must be in the list
//   - regex:pattern must match; the pattern cannot contain '|'
//
// Processing of a field stops at its first failing rule.
package validation
