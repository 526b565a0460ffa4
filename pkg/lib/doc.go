// Package lib provides a Go SDK to unblock files programmatically.
//
// Files downloaded from the internet are marked by the operating system (the
// Zone.Identifier stream on Windows, the quarantine extended attribute on macOS).
// This package removes those marks from a selection of files and directories
// without shelling out to the unblock CLI binary.
//
// # Quick Start
//
// Create a client and unblock a selection, following the progress:
//
//	client, err := lib.New(lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := client.Unblock(ctx, []string{"/home/me/Downloads"}, func(ev lib.Event) {
//	    fmt.Printf("%3d%% %s\n", ev.Percent, ev.Message)
//	})
//
// # Runs
//
// [Client.Start] returns a [Run] that processes the files in background. A run
// can be paused, resumed and cancelled, these take effect between files:
//
//	run, _ := client.Start(ctx, paths)
//	run.Pause()
//	run.Resume()
//	run.Cancel()
//	for ev := range run.Events() {
//	    // The last event is always EventKindFinished.
//	}
//	summary := run.Wait()
//
// The events of a run must be consumed until the channel is closed, the run
// blocks when nobody reads them. [Client.Unblock] does this for you.
//
// # Engines
//
//   - [EngineCommand]: Runs an external command per file (PowerShell Unblock-File by default on Windows).
//   - [EngineNative]: Removes the marks in-process (default on macOS and Linux).
//   - [EngineFake]: Doesn't modify anything. Use it for tests and dry runs.
//
// # Error Handling
//
// Errors can be inspected with [errors.Is]:
//
//   - [ErrNotValid]: Invalid configuration or operation.
//   - [ErrNoFiles]: The selection has no files.
//   - [ErrNotSupported]: The engine is not supported on this platform.
//
// Failing files don't stop a run, they are reported as [EventKindError] events
// and counted in [RunSummary].Failed.
package lib
