/*
Package observability provides monitoring for the Sprig engine.

Everything here plugs into domain.LifecycleHooks: Prometheus metrics for
answers, rejections and cascades, structured logging of the same events, and
Combine to fan one hook set out to several consumers.
*/
package observability
