// Package local selects the codepages used for console and file text.
//
// A Selector binds the two profiles to concrete codepages once, at
// construction. On Windows the default Selector uses the process's OEM
// codepage for the console and its ANSI codepage for files, converted through
// the NLS functions. Elsewhere both profiles are UTF-8.
//
// Configuration can change the provider and the codepages:
//
//	cfg, _ := config.Load()
//	sel, err := local.FromConfig(cfg)
//	dec := sel.Decoder(local.Console, bufio.NewReader(os.Stdin))
//
// The package-level ConsoleDecode, FileDecode, ConsoleEncode and FileEncode
// use the system Selector.
package local
