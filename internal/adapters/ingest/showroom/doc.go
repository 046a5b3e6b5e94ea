// Package showroom downloads the monthly broadcaster CSV exports.
//
// Design choices:
// - One GET per month, no retries. A 404 means "not published yet" and is
//   reported as ErrNotFound so the caller can skip the month.
// - The body is decoded to UTF-8 here, with the encoding picked per feed and
//   never sniffed. Consumers only ever see UTF-8.
// - CachedFetcher keeps decoded bytes in the store KV keyed by URL. It is
//   meant for slow-moving tables such as the event-entry list.
package showroom
