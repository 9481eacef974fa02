// Package ampevents implements the on-device analytics event pipeline: the durable event queue,
// session bookkeeping, upload scheduling, and batched delivery to the event service.
//
// This package is intended for internal use by the SDK and for custom integrations that need to
// substitute their own event delivery or storage. Normal usage of the SDK does not require
// referencing it directly, except for the Event and Identify value types.
package ampevents
