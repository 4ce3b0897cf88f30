// Package transformer renders stub response body files as templates.
//
// A response whose body file name ends with the template suffix (".vm" by
// default) is rendered against a context built from the incoming request:
//
//	requestBody          raw body, only when non-empty
//	requestHeader<Name>  header values as "[v1, v2]", hyphens removed from Name
//	requestAbsoluteUrl   full URL
//	requestUrl           request-relative URL
//	requestMethod        HTTP method
//	requestPath          URL split on '/' and '?'
//	dateRange            tool: $dateRange.of("2020-01-01", "2020-01-31")
//	query-<name>         query parameter values, for names listed in the
//	                     "query" transformer parameter
//
// Every other response passes through untouched.
package transformer
