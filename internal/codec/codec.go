// Package codec implements the compact binary `.dlc` format for a parsed
// AST Program (spec §4.4): a 4-byte magic, a little-endian uncompressed
// length, and a deflate-compressed body.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/ritamzico/rulr/internal/ast"
)

// Magic identifies a .dlc file ("rulr compiled").
var Magic = [4]byte{'R', 'U', 'L', 'C'}

// Encode serializes prog to the .dlc wire format.
func Encode(prog *ast.Program) ([]byte, error) {
	w := &writer{}

	var flags uint8
	if prog.ClearDerived {
		flags |= 1
	}
	w.u8(flags)

	w.count16(len(prog.Decls), "num_decls")
	for _, d := range prog.Decls {
		w.str(d.Pred)
		w.arity(len(d.Args), "decl "+d.Pred)
		for _, a := range d.Args {
			w.str(a.Name)
			w.str(a.Type)
		}
	}

	w.count16(len(prog.Facts), "num_facts")
	for _, f := range prog.Facts {
		w.str(f.Pred)
		w.arity(len(f.Args), "fact "+f.Pred)
		for _, a := range f.Args {
			if a.IsInt {
				w.u8(1)
				w.i64(a.Int)
			} else {
				w.u8(0)
				w.str(a.Str)
			}
		}
	}

	w.count16(len(prog.Rules), "num_rules")
	for _, rl := range prog.Rules {
		w.str(rl.Head)
		w.arity(len(rl.HeadArgs), "rule "+rl.Head)
		for _, t := range rl.HeadArgs {
			writeTerm(w, t)
		}
		w.count16(len(rl.Body), "body_len for rule "+rl.Head)
		for _, lit := range rl.Body {
			writeLiteral(w, lit)
		}
	}

	if w.err != nil {
		return nil, w.err
	}

	payload := w.buf.Bytes()

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	if err != nil {
		return nil, &Error{Kind: KindDecompressFail, Message: "compressor init failed: " + err.Error()}
	}
	if _, err := fw.Write(payload); err != nil {
		return nil, &Error{Kind: KindDecompressFail, Message: "compression failed: " + err.Error()}
	}
	if err := fw.Close(); err != nil {
		return nil, &Error{Kind: KindDecompressFail, Message: "compression failed: " + err.Error()}
	}

	out := make([]byte, 0, 8+compressed.Len())
	out = append(out, Magic[:]...)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	out = append(out, lenBuf[:]...)
	out = append(out, compressed.Bytes()...)
	return out, nil
}

// Decode parses the .dlc wire format back into an AST Program. Variable
// terms round-trip by name; nothing in the wire format carries a variable
// index, so there is nothing to reset — the IR builder assigns indices
// fresh on every build regardless of where the AST came from (spec §4.4:
// "except that variable ID fields are reset to unassigned on load").
// Wildcards carry no payload, so readTerm re-mints their synthetic names
// ("_$1", "_$2", ...) in order of appearance, the same numbering the parser
// uses; a zero count leaves the matching slice nil, as the parser does.
func Decode(data []byte) (*ast.Program, error) {
	if len(data) < 8 {
		return nil, &Error{Kind: KindTruncated, Message: "header shorter than 8 bytes"}
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return nil, &Error{Kind: KindBadMagic, Message: fmt.Sprintf("got magic bytes %x", data[:4])}
	}
	declaredLen := binary.LittleEndian.Uint32(data[4:8])

	fr := flate.NewReader(bytes.NewReader(data[8:]))
	defer fr.Close()
	payload, err := io.ReadAll(fr)
	if err != nil {
		return nil, &Error{Kind: KindDecompressFail, Message: err.Error()}
	}
	if uint32(len(payload)) != declaredLen {
		return nil, &Error{Kind: KindOutOfRangeLength, Message: fmt.Sprintf(
			"header declares %d uncompressed bytes, got %d", declaredLen, len(payload))}
	}

	r := &reader{buf: payload}
	flags := r.u8()
	prog := &ast.Program{ClearDerived: flags&1 != 0}

	if numDecls := int(r.u16()); numDecls > 0 {
		prog.Decls = make([]ast.Decl, numDecls)
	}
	for i := range prog.Decls {
		name := r.str()
		arity := int(r.u8())
		args := make([]ast.DeclArg, arity)
		for j := range args {
			args[j] = ast.DeclArg{Name: r.str(), Type: r.str()}
		}
		prog.Decls[i] = ast.Decl{Pred: name, Args: args}
	}

	if numFacts := int(r.u16()); numFacts > 0 {
		prog.Facts = make([]ast.Fact, numFacts)
	}
	for i := range prog.Facts {
		pred := r.str()
		arity := int(r.u8())
		args := make([]ast.FactArg, arity)
		for j := range args {
			kind := r.u8()
			if kind == 1 {
				args[j] = ast.FactArg{IsInt: true, Int: r.i64()}
			} else {
				args[j] = ast.FactArg{Str: r.str()}
			}
		}
		prog.Facts[i] = ast.Fact{Pred: pred, Args: args}
	}

	if numRules := int(r.u16()); numRules > 0 {
		prog.Rules = make([]ast.Rule, numRules)
	}
	for i := range prog.Rules {
		head := r.str()
		headArity := int(r.u8())
		headArgs := make([]ast.Term, headArity)
		for j := range headArgs {
			headArgs[j] = readTerm(r)
		}
		bodyLen := int(r.u16())
		body := make([]ast.Literal, bodyLen)
		for j := range body {
			body[j] = readLiteral(r)
		}
		prog.Rules[i] = ast.Rule{Head: head, HeadArgs: headArgs, Body: body}
	}

	if r.err != nil {
		return nil, r.err
	}
	return prog, nil
}
