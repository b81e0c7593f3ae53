// Package fetch builds search sessions from catalog results.
//
// The Builder queries the video catalog for a keyword, fans transcript
// downloads out over a bounded worker pool, and stores the assembled
// session. Transcript fetches go through an optional cache and a retry
// policy; individual transcript failures leave the video in the session
// without segments.
package fetch
