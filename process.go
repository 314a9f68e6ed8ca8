package capfilter

// Processes maps a process id to its command line.
type Processes map[int]string
