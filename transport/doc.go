// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package transport adapts the LINE Messaging API to the narrow capabilities
the core needs: send a reply, push to a conversation, and resolve a member's
display name.

Display names are cached for 24 hours in a size-swept map. The cache is
never authoritative: a miss or an eviction only costs one extra profile
lookup, and a lookup failure is absorbed upstream with a fallback name.
*/
package transport
