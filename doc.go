package capfilter

/*
 capfilter turns structured capture criteria into tcpdump filter expressions
 and drives the tooling around a capture: interface discovery, detection of
 already-running captures, and the tcpdump invocation itself. The expression
 compiler lives in the filter subpackage; this package only deals with the
 host environment.
*/
