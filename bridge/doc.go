// Package bridge lets asynchronous user logic drive a strictly single-threaded
// host API.
//
// The host calls a lifecycle stage on its own goroutine (the host goroutine).
// A StageRunner starts the user's stage method on a separate goroutine and
// keeps the host goroutine busy draining an ordered action queue owned by an
// execution Context. Every host-affined call the user logic makes through
// Call or Invoke, and every continuation scheduled through the Redirector,
// becomes a PendingAction on that queue and is invoked on the host goroutine
// in submission order. When the stage method returns, the queue is closed,
// the remaining actions are delivered and the outcome is classified:
//
//   - an error matching core.ErrHostHalted wins and is returned unchanged
//   - cancellation is swallowed
//   - otherwise the first remaining cause is returned
//
// A call issued while already running on the host goroutine executes in place
// instead of being queued, since the host goroutine would otherwise wait on
// itself.
//
// Basic usage:
//
//	reg := bridge.NewRegistry()
//	runner := bridge.NewStageRunner(func(o *bridge.RunnerOptions) { o.Registry = reg })
//	err := runner.Run(ctx, logic, host, core.StageProcess)
//
// Inside a stage method:
//
//	func (l *MyLogic) ProcessRecord(ctx context.Context, hc *bridge.Context) error {
//		f, err := bridge.Invoke(ctx, hc, func(ctx context.Context, h core.Host) (struct{}, error) {
//			return struct{}{}, h.WriteObject("a", false)
//		})
//		if err != nil {
//			return err
//		}
//		_, err = f.Wait(ctx)
//		return err
//	}
package bridge
