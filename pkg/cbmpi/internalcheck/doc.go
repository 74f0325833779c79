// Package internalcheck holds static policy tests over the cb-mpi-go
// packages. It has no exported API.
//
// The tests load the production sources with golang.org/x/tools/go/packages
// and fail when a package
//
//   - imports math/big or crypto/rsa, which would bypass the mpi arithmetic;
//   - reads randomness anywhere but through pkg/cbmpi/random;
//   - formats values with %x, the usual way secrets end up in logs and errors.
package internalcheck
