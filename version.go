package hfsm

// Version is the library and CLI version. Release builds override it with
// -ldflags "-X github.com/aretw0/hfsm.Version=...".
var Version = "v0.1.0-dev"
