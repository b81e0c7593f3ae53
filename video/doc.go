// Package video defines the upstream collaborator interfaces of the
// pipeline: the catalog that maps a keyword to videos and the transcript
// provider that maps a video id to timestamped segments.
//
// The production implementation over the YouTube Data API and the
// timedtext endpoint lives in video/youtube.
package video
