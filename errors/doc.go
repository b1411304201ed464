// Package errors is a helper package for the plain Go language error type. We
// think of these errors as curated errors. External to this package, curated
// errors are referenced as plain errors (ie. they implement the error
// interface).
//
// Internally, errors are thought of as being composed of parts, as described
// by The Go Programming Language (Donovan, Kernighan): "When the error is
// ultimately handled by the program's main function, it should provide a clear
// causal chain from the root of the problem to the overall failure".
//
// The Error() function implementation for curated errors ensures that this
// chain is normalised. Specifically, that the chain does not contain duplicate
// adjacent parts. The practical advantage of this is that it alleviates the
// problem of when and how to wrap errors. For example:
//
//	func A() error {
//		err := B()
//		if err != nil {
//			return errors.Errorf("cartridge error: %v", err)
//		}
//		return nil
//	}
//
//	func B() error {
//		return errors.Errorf("cartridge error: unsupported mapper")
//	}
//
// A() will return "cartridge error: unsupported mapper" rather than
// "cartridge error: cartridge error: unsupported mapper".
package errors
