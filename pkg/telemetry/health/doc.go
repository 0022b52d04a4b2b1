// Package health serves liveness, readiness, version and metrics endpoints
// while ifccheck runs in watch mode.
//
// Readiness aggregates registered checks. RunState is the check the watch
// loop feeds: it turns unhealthy when the latest rule document or model
// failed to load, so an orchestrator can tell a broken rules commit from a
// model that merely fails validation.
//
//	checker := health.New(2 * time.Second)
//	state := health.NewRunState()
//	checker.RegisterCheck("validation", state.Check)
//
//	srv := health.NewServer(":9090", checker, collector.Handler(), info)
//	go srv.ListenAndServe()
//	defer srv.Shutdown(ctx)
package health
