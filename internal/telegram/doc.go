// Package telegram provides Telegram Bot API delivery of BVK outage reports.
//
// FormatResults renders parsed outage records as a Telegram HTML message. The
// Client posts messages with sendMessage, retrying rate-limited and server-side
// failures with exponential backoff, and splits reports longer than Telegram's
// message limit into several messages sent in order.
//
// Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
