package version

// Version is the current release version of webmirror
const Version = "1.0.0"
