// Package tasks manages assignments and to-dos.
//
// Creating a task schedules its reminder and mirrors it as a calendar event;
// completing it cancels the reminder and bumps the completed-task counter;
// deleting it removes both. Reminder and calendar failures never fail the
// task operation itself.
package tasks
