// Package template renders response body files written in a Velocity-style
// template language against a per-request variable Context.
//
// # References
//
//   - $name or ${name} - a context variable
//   - $!name or $!{name} - the same, rendering nothing when undefined
//   - $name.prop, $name.method(args), $name[index] - property, method and index access
//
// Identifiers may contain hyphens, so variables such as $query-id resolve as
// one name. Unbraced references never end in a hyphen.
//
// Built-in methods are available on strings (length, toUpperCase,
// toLowerCase, trim, isEmpty, contains, startsWith, endsWith, equals), on
// lists and date sequences (size, get, isEmpty, contains) and on maps (get,
// size, containsKey, isEmpty). Other operations come from Tool values placed
// in the Context, such as DateRange:
//
//	#foreach($day in $dateRange.of("2020-01-01", "2020-01-07"))
//	  $day
//	#end
//
// # Directives
//
//   - #set($var = value)
//   - #foreach($item in list) ... #end, with $foreach.count, $foreach.index,
//     $foreach.hasNext, $foreach.first and $foreach.last inside the body
//   - #if(condition) ... #elseif(condition) ... #else ... #end
//   - ## line comments and #* block comments *#
//
// A directive that is alone on its line consumes the whole line, so
// templates can be indented freely without leaking blank lines into the
// output. \$ and \# produce a literal $ or #.
//
// # Conditions
//
// A condition that is a single reference, optionally negated with !, is true
// when the reference is defined and not false. Any other condition is an
// expr-lang expression (https://expr-lang.org) in which each reference has
// been replaced by its value:
//
//	#if($requestMethod == "POST" && len($query-id) > 0)
//
// # Undefined references
//
// In Lenient mode an undefined reference is rendered as written. In Strict
// mode it fails rendering with ErrUndefinedReference, except for quiet
// references and bare #if checks.
package template
