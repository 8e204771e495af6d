// Package compiler provides the lexer and parser for cbt, a language of
// English phrases, and hands the finished statement tree to a code generator.
//
// Pipeline: source → Lex → Parse → []Stmt (→ Dump for the code generator)
//
//	DEFINE MODULE "main" WITH CONTENTS:
//	    SET "greeting" EQUAL TO "hello".
//	    CALL FUNCTION "print" WITH THE ARGUMENT "greeting".
//	END MODULE "main".
package compiler
