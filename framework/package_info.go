// Package framework contains the scenario engine that drives a contract test run against
// a remote service. It knows nothing about the particular service being tested.
//
// The general model is:
//
// 1. A run is a fixed, ordered list of Scenarios. Each Scenario has a name, a function that
// performs the scenario, and optionally a Critical flag and a list of prerequisite
// scenarios whose artifacts it consumes.
//
// 2. The Orchestrator executes the scenarios in declaration order. A failing critical
// scenario ends the run; the scenarios after it are reported as skipped, never silently
// dropped. All other failures are recorded and the run continues.
//
// 3. Each scenario runs inside a Context, which is similar to Go's *testing.T: it can be
// passed to the testify assert and require packages, and its FailNow exits the scenario.
// Whatever happens inside the scenario, including a panic, is converted into exactly one
// ScenarioResult at the Context boundary.
//
// 4. Scenarios hand values to each other through an ArtifactBag, where each key can be
// written only once per run.
//
// 5. A Reporter accumulates results in declaration order and renders the final summary.
//
// The domain-specific code that knows what is being tested builds the scenario list and
// a domain-specific API on top of Context.
package framework
