// Package notifier announces newly added events.
//
// A Notifier receives the events reported by `events --new`. The webhook
// notifier posts one JSON message per event to a chat webhook (Slack, Discord
// and Mattermost incoming webhooks all accept a {"text": ...} body); the
// dry-run notifier prints the messages instead.
package notifier
