// Package view binds containers to a minimal rendering boundary.
//
// Three adapters cover the ownership cases:
//
//   - ObjectView renders a container owned elsewhere and never subscribes.
//   - ObservedObjectView renders a container owned elsewhere and schedules a
//     rebuild on the Host whenever the container mutates.
//   - StateObjectView owns its container. The Host creates it once per key
//     and keeps it across mounts until Forget is called.
//
// A Host plays the build-owner role: adapters mark themselves dirty and
// FlushBuild re-renders them in scheduling order. What a render produces is
// up to the caller's Content function; this package does no layout or
// composition.
package view
