// ifccheck validates building-model entity graphs against declarative rule
// documents.
//
// Usage:
//
//	# Validate a model against a rule file and print the report
//	ifccheck check rules.yaml model.yaml
//
//	# Write "validation report rules.yaml model.yaml.txt" instead
//	ifccheck check rules.yaml model.yaml --report-file
//
//	# Re-run whenever the rules or the model change
//	ifccheck check --config ifccheck.yaml --watch --listen :9090
//
//	# Check rule files without a model
//	ifccheck lint rules/*.yaml
//
//	# Inspect archived runs
//	ifccheck history list
//	ifccheck history show <run-id>
package main

func main() {
	Execute()
}
