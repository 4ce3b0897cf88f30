// Package config loads vmtransform settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Defaults (Default)
//  2. A YAML file (LoadFromFile)
//  3. VMTRANSFORM_* environment variables (ApplyEnv)
//
// Validate is called once all layers are applied.
//
// Example file:
//
//	files: ./stubs/__files
//	templateSuffix: .vm
//	strict: true
//	cacheTemplates: true
//	jsonPath: true
//	log:
//	  level: debug
//	  format: json
package config
