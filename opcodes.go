// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// OperandShape classifies how an opcode's trailing bytes are laid out, the
// way other_examples' x86_64 instruction table keys a slice of operand
// descriptors by opcode instead of hand-writing a decoder per mnemonic.
// instruction.go's decoder switches on this instead of the raw opcode
// wherever two or more opcodes share a shape (e.g. every iload-family
// opcode with an explicit index).
type OperandShape uint8

const (
	ShapeNone          OperandShape = iota // no operand bytes
	ShapeLocalIndexU1                      // one local variable index byte (widened by `wide`)
	ShapeImmediateS1                       // bipush: one signed immediate byte
	ShapeImmediateS2                       // sipush: one signed immediate short
	ShapeAtypeU1                           // newarray: one array-type code byte
	ShapeConstIndexU1                      // ldc: one constant pool index byte
	ShapeConstIndexU2                      // ldc_w/ldc2_w and every u2-indexed pool ref
	ShapeBranchS2                          // a 2-byte signed branch offset
	ShapeBranchS4                          // goto_w/jsr_w: a 4-byte signed branch offset
	ShapeIinc                              // iinc: index byte + signed const byte (widened forms: u2+s2)
	ShapeTableSwitch                       // tableswitch: padded, variable-length
	ShapeLookupSwitch                      // lookupswitch: padded, variable-length
	ShapeInvokeInterface                   // u2 index + u1 count + u1 zero
	ShapeInvokeDynamic                     // u2 index + u1 zero + u1 zero
	ShapeMultiANewArray                    // u2 index + u1 dimensions
	ShapeWidePrefix                        // wide: itself prefixes another opcode
)

type opcodeDescriptor struct {
	Mnemonic string
	Shape    OperandShape
}

// opcodeTable is indexed by opcode value; a zero-value Mnemonic marks an
// opcode the JVM specification reserves (the breakpoint/impdep slots and
// the unused 203-253 range) rather than assigns.
var opcodeTable = [256]opcodeDescriptor{
	0:   {"nop", ShapeNone},
	1:   {"aconst_null", ShapeNone},
	2:   {"iconst_m1", ShapeNone},
	3:   {"iconst_0", ShapeNone},
	4:   {"iconst_1", ShapeNone},
	5:   {"iconst_2", ShapeNone},
	6:   {"iconst_3", ShapeNone},
	7:   {"iconst_4", ShapeNone},
	8:   {"iconst_5", ShapeNone},
	9:   {"lconst_0", ShapeNone},
	10:  {"lconst_1", ShapeNone},
	11:  {"fconst_0", ShapeNone},
	12:  {"fconst_1", ShapeNone},
	13:  {"fconst_2", ShapeNone},
	14:  {"dconst_0", ShapeNone},
	15:  {"dconst_1", ShapeNone},
	16:  {"bipush", ShapeImmediateS1},
	17:  {"sipush", ShapeImmediateS2},
	18:  {"ldc", ShapeConstIndexU1},
	19:  {"ldc_w", ShapeConstIndexU2},
	20:  {"ldc2_w", ShapeConstIndexU2},
	21:  {"iload", ShapeLocalIndexU1},
	22:  {"lload", ShapeLocalIndexU1},
	23:  {"fload", ShapeLocalIndexU1},
	24:  {"dload", ShapeLocalIndexU1},
	25:  {"aload", ShapeLocalIndexU1},
	26:  {"iload_0", ShapeNone},
	27:  {"iload_1", ShapeNone},
	28:  {"iload_2", ShapeNone},
	29:  {"iload_3", ShapeNone},
	30:  {"lload_0", ShapeNone},
	31:  {"lload_1", ShapeNone},
	32:  {"lload_2", ShapeNone},
	33:  {"lload_3", ShapeNone},
	34:  {"fload_0", ShapeNone},
	35:  {"fload_1", ShapeNone},
	36:  {"fload_2", ShapeNone},
	37:  {"fload_3", ShapeNone},
	38:  {"dload_0", ShapeNone},
	39:  {"dload_1", ShapeNone},
	40:  {"dload_2", ShapeNone},
	41:  {"dload_3", ShapeNone},
	42:  {"aload_0", ShapeNone},
	43:  {"aload_1", ShapeNone},
	44:  {"aload_2", ShapeNone},
	45:  {"aload_3", ShapeNone},
	46:  {"iaload", ShapeNone},
	47:  {"laload", ShapeNone},
	48:  {"faload", ShapeNone},
	49:  {"daload", ShapeNone},
	50:  {"aaload", ShapeNone},
	51:  {"baload", ShapeNone},
	52:  {"caload", ShapeNone},
	53:  {"saload", ShapeNone},
	54:  {"istore", ShapeLocalIndexU1},
	55:  {"lstore", ShapeLocalIndexU1},
	56:  {"fstore", ShapeLocalIndexU1},
	57:  {"dstore", ShapeLocalIndexU1},
	58:  {"astore", ShapeLocalIndexU1},
	59:  {"istore_0", ShapeNone},
	60:  {"istore_1", ShapeNone},
	61:  {"istore_2", ShapeNone},
	62:  {"istore_3", ShapeNone},
	63:  {"lstore_0", ShapeNone},
	64:  {"lstore_1", ShapeNone},
	65:  {"lstore_2", ShapeNone},
	66:  {"lstore_3", ShapeNone},
	67:  {"fstore_0", ShapeNone},
	68:  {"fstore_1", ShapeNone},
	69:  {"fstore_2", ShapeNone},
	70:  {"fstore_3", ShapeNone},
	71:  {"dstore_0", ShapeNone},
	72:  {"dstore_1", ShapeNone},
	73:  {"dstore_2", ShapeNone},
	74:  {"dstore_3", ShapeNone},
	75:  {"astore_0", ShapeNone},
	76:  {"astore_1", ShapeNone},
	77:  {"astore_2", ShapeNone},
	78:  {"astore_3", ShapeNone},
	79:  {"iastore", ShapeNone},
	80:  {"lastore", ShapeNone},
	81:  {"fastore", ShapeNone},
	82:  {"dastore", ShapeNone},
	83:  {"aastore", ShapeNone},
	84:  {"bastore", ShapeNone},
	85:  {"castore", ShapeNone},
	86:  {"sastore", ShapeNone},
	87:  {"pop", ShapeNone},
	88:  {"pop2", ShapeNone},
	89:  {"dup", ShapeNone},
	90:  {"dup_x1", ShapeNone},
	91:  {"dup_x2", ShapeNone},
	92:  {"dup2", ShapeNone},
	93:  {"dup2_x1", ShapeNone},
	94:  {"dup2_x2", ShapeNone},
	95:  {"swap", ShapeNone},
	96:  {"iadd", ShapeNone},
	97:  {"ladd", ShapeNone},
	98:  {"fadd", ShapeNone},
	99:  {"dadd", ShapeNone},
	100: {"isub", ShapeNone},
	101: {"lsub", ShapeNone},
	102: {"fsub", ShapeNone},
	103: {"dsub", ShapeNone},
	104: {"imul", ShapeNone},
	105: {"lmul", ShapeNone},
	106: {"fmul", ShapeNone},
	107: {"dmul", ShapeNone},
	108: {"idiv", ShapeNone},
	109: {"ldiv", ShapeNone},
	110: {"fdiv", ShapeNone},
	111: {"ddiv", ShapeNone},
	112: {"irem", ShapeNone},
	113: {"lrem", ShapeNone},
	114: {"frem", ShapeNone},
	115: {"drem", ShapeNone},
	116: {"ineg", ShapeNone},
	117: {"lneg", ShapeNone},
	118: {"fneg", ShapeNone},
	119: {"dneg", ShapeNone},
	120: {"ishl", ShapeNone},
	121: {"lshl", ShapeNone},
	122: {"ishr", ShapeNone},
	123: {"lshr", ShapeNone},
	124: {"iushr", ShapeNone},
	125: {"lushr", ShapeNone},
	126: {"iand", ShapeNone},
	127: {"land", ShapeNone},
	128: {"ior", ShapeNone},
	129: {"lor", ShapeNone},
	130: {"ixor", ShapeNone},
	131: {"lxor", ShapeNone},
	132: {"iinc", ShapeIinc},
	133: {"i2l", ShapeNone},
	134: {"i2f", ShapeNone},
	135: {"i2d", ShapeNone},
	136: {"l2i", ShapeNone},
	137: {"l2f", ShapeNone},
	138: {"l2d", ShapeNone},
	139: {"f2i", ShapeNone},
	140: {"f2l", ShapeNone},
	141: {"f2d", ShapeNone},
	142: {"d2i", ShapeNone},
	143: {"d2l", ShapeNone},
	144: {"d2f", ShapeNone},
	145: {"i2b", ShapeNone},
	146: {"i2c", ShapeNone},
	147: {"i2s", ShapeNone},
	148: {"lcmp", ShapeNone},
	149: {"fcmpl", ShapeNone},
	150: {"fcmpg", ShapeNone},
	151: {"dcmpl", ShapeNone},
	152: {"dcmpg", ShapeNone},
	153: {"ifeq", ShapeBranchS2},
	154: {"ifne", ShapeBranchS2},
	155: {"iflt", ShapeBranchS2},
	156: {"ifge", ShapeBranchS2},
	157: {"ifgt", ShapeBranchS2},
	158: {"ifle", ShapeBranchS2},
	159: {"if_icmpeq", ShapeBranchS2},
	160: {"if_icmpne", ShapeBranchS2},
	161: {"if_icmplt", ShapeBranchS2},
	162: {"if_icmpge", ShapeBranchS2},
	163: {"if_icmpgt", ShapeBranchS2},
	164: {"if_icmple", ShapeBranchS2},
	165: {"if_acmpeq", ShapeBranchS2},
	166: {"if_acmpne", ShapeBranchS2},
	167: {"goto", ShapeBranchS2},
	168: {"jsr", ShapeBranchS2},
	169: {"ret", ShapeLocalIndexU1},
	170: {"tableswitch", ShapeTableSwitch},
	171: {"lookupswitch", ShapeLookupSwitch},
	172: {"ireturn", ShapeNone},
	173: {"lreturn", ShapeNone},
	174: {"freturn", ShapeNone},
	175: {"dreturn", ShapeNone},
	176: {"areturn", ShapeNone},
	177: {"return", ShapeNone},
	178: {"getstatic", ShapeConstIndexU2},
	179: {"putstatic", ShapeConstIndexU2},
	180: {"getfield", ShapeConstIndexU2},
	181: {"putfield", ShapeConstIndexU2},
	182: {"invokevirtual", ShapeConstIndexU2},
	183: {"invokespecial", ShapeConstIndexU2},
	184: {"invokestatic", ShapeConstIndexU2},
	185: {"invokeinterface", ShapeInvokeInterface},
	186: {"invokedynamic", ShapeInvokeDynamic},
	187: {"new", ShapeConstIndexU2},
	188: {"newarray", ShapeAtypeU1},
	189: {"anewarray", ShapeConstIndexU2},
	190: {"arraylength", ShapeNone},
	191: {"athrow", ShapeNone},
	192: {"checkcast", ShapeConstIndexU2},
	193: {"instanceof", ShapeConstIndexU2},
	194: {"monitorenter", ShapeNone},
	195: {"monitorexit", ShapeNone},
	196: {"wide", ShapeWidePrefix},
	197: {"multianewarray", ShapeMultiANewArray},
	198: {"ifnull", ShapeBranchS2},
	199: {"ifnonnull", ShapeBranchS2},
	200: {"goto_w", ShapeBranchS4},
	201: {"jsr_w", ShapeBranchS4},
}

// NewArray type codes (§6.5 newarray), the atype byte's legal values.
const (
	ATypeBoolean = 4
	ATypeChar    = 5
	ATypeFloat   = 6
	ATypeDouble  = 7
	ATypeByte    = 8
	ATypeShort   = 9
	ATypeInt     = 10
	ATypeLong    = 11
)

func validAtype(v uint8) bool {
	return v >= ATypeBoolean && v <= ATypeLong
}

// wideable reports whether opcode is one the `wide` prefix may legally
// precede (§6.5 wide): every local-index load/store plus ret, and iinc with
// its widened 2-byte-index/2-byte-const shape.
func wideable(opcode uint8) bool {
	switch opcode {
	case 21, 22, 23, 24, 25, // iload..aload
		54, 55, 56, 57, 58, // istore..astore
		169, // ret
		132: // iinc
		return true
	default:
		return false
	}
}
