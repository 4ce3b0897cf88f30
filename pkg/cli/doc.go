// Package cli implements the vmtransform command line.
//
// Commands:
//
//	vmtransform render <fixture.yaml>   run a stub fixture through the transformer
//	vmtransform context <fixture.yaml>  print the variables a template would see
//	vmtransform check [dir]             parse every template under a directory
//	vmtransform version                 print build information
//
// Settings are layered: defaults, then the file given by --config, then
// VMTRANSFORM_* environment variables, then command-line flags.
package cli
