// Command liborderlistid builds the C ABI for order list identifiers:
//
//	go build -buildmode=c-shared -o liborderlistid.so ./cmd/liborderlistid
//
// Identifiers cross the boundary as opaque uint64 handles. Every handle
// returned by order_list_id_new must be passed to order_list_id_free exactly
// once; 0 is never a valid handle.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"os"
	"unsafe"

	"go.uber.org/zap/zapcore"
)

// cString views a caller-owned C buffer without copying it
type cString struct {
	ptr *C.char
	n   C.size_t
}

func (s cString) Bytes() ([]byte, bool) {
	return foreignBytes(unsafe.Pointer(s.ptr), uint64(s.n))
}

var lib *library

func init() {
	lib = newLibrary(configPaths(), zapcore.AddSync(os.Stderr))
}

// order_list_id_new copies len bytes of UTF-8 text at ptr into a new
// identifier and returns its handle. The buffer is not retained. Returns 0
// when ptr is NULL, the text is not valid UTF-8 or the registry is full.
//
//export order_list_id_new
func order_list_id_new(ptr *C.char, n C.size_t) C.uint64_t {
	return C.uint64_t(lib.newHandle(cString{ptr: ptr, n: n}))
}

// order_list_id_free releases the identifier behind handle. Using the
// handle afterwards is a caller error; repeated frees are logged and ignored.
//
//export order_list_id_free
func order_list_id_free(handle C.uint64_t) {
	lib.freeHandle(uint64(handle))
}

func main() {}
