// Package calendar mirrors tasks into a calendar.
//
// Adapter is the capability the task service depends on: upsert an event for a
// task, delete it when the task goes away. Google implements it with the Google
// Calendar API (events carry a private extended property with the task id);
// Nop is used when sync is disabled.
package calendar
