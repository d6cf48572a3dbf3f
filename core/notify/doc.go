// Package notify schedules task reminders.
//
// Scheduler is the capability the task service depends on ("deliver this at
// time T", "cancel by id"). Local implements it with in-process timers; on a
// device build the DeliverFunc hands the payload to the platform notification
// bridge.
package notify
