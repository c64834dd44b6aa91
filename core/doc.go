// Package core provides the foundational types shared by every hostbridge
// package. It defines the vocabulary for:
//
//   - Stages (the host's lifecycle callbacks: begin, process, end, stop)
//   - Host (the single-threaded, host-affined operations such as WriteObject)
//   - Records exchanged with the host (errors, progress, information)
//   - The error taxonomy (usage errors, host halted, cancellation)
//
// The package intentionally keeps the bridge machinery (queues, contexts,
// runners) out of scope so that hosts and user logic can depend on a small,
// stable surface.
package core
