package lattice

// Version is the runtime release version.
const Version = "0.1.0"
