// Package triage provides the business boundary for the intake assignment
// system. It defines the Service (validate, classify, persist, enqueue),
// QueueManager (per-department priority queues), the store interfaces, and
// the domain models.
package triage
