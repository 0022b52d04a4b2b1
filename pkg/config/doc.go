// Package config loads and validates the ifccheck configuration.
//
// Configuration is read from a YAML file over built-in defaults, then
// environment variables of the form IFCCHECK_SECTION_FIELD override
// individual fields:
//
//	IFCCHECK_RULES_PATHS="rules/**/*.yaml"
//	IFCCHECK_REPORT_FORMAT=json
//	IFCCHECK_ARCHIVE_ENABLED=true
//
// A minimal file:
//
//	rules:
//	  paths: ["rules/**/*.yaml"]
//	model:
//	  path: building.yaml
//	report:
//	  output: file
//	  directory: reports
package config
