package virtolang

// Version identifies this build of the interpreter for --version and the
// REPL banner.
const Version = "0.1.0"
