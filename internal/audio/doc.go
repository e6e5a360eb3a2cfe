package audio

// Package audio shells out to ffprobe and ffmpeg for track duration probing
// and loudness normalization. Normalization runs as background tasks with
// progress reported through a callback.
