package generate

import (
	"fmt"
	"path/filepath"

	"dbpc/cmds"

	llir "github.com/llir/llvm/ir"
	llconst "github.com/llir/llvm/ir/constant"
	llenum "github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// CorePluginName is the name of the mandatory host engine plugin.  It must be
// loaded before every other plugin.
const CorePluginName = "DBProCore"

// EngineInterface generates the runtime plumbing between the compiled program
// and the host engine: the runtime ABI declarations, the per-plugin handle
// globals, the command dispatch thunks, and the program entry point.
//
// The runtime ABI expected from the host engine is exactly four symbols:
//
//	void* loadPlugin(const char* pluginName);
//	void* getFunctionAddress(void* plugin, const char* functionName);
//	void  debugPrintf(const char* fmt, ...);
//	int   initialiseEngine();
type EngineInterface struct {
	mod *llir.Module

	loadPluginFunc         *llir.Func
	getFunctionAddressFunc *llir.Func
	debugPrintfFunc        *llir.Func
	initialiseEngineFunc   *llir.Func

	// pluginHandles maps plugin names to the module-level globals their
	// load-time handles are stored in.
	pluginHandles map[string]*llir.Global

	// stringCounter names the symbol-name string globals.
	stringCounter int

	// dwordTy is the pointer-sized type (an i8 pointer) that float-returning
	// commands are called as returning.
	dwordTy lltypes.Type
}

// NewEngineInterface declares the runtime ABI in the module and returns the
// engine interface.
func NewEngineInterface(mod *llir.Module) *EngineInterface {
	ei := &EngineInterface{
		mod:           mod,
		pluginHandles: make(map[string]*llir.Global),
		dwordTy:       lltypes.I8Ptr,
	}

	ei.loadPluginFunc = mod.NewFunc("loadPlugin", lltypes.I8Ptr,
		llir.NewParam("pluginName", lltypes.I8Ptr))
	ei.loadPluginFunc.DLLStorageClass = llenum.DLLStorageClassDLLImport

	ei.getFunctionAddressFunc = mod.NewFunc("getFunctionAddress", lltypes.I8Ptr,
		llir.NewParam("plugin", lltypes.I8Ptr),
		llir.NewParam("functionName", lltypes.I8Ptr))
	ei.getFunctionAddressFunc.DLLStorageClass = llenum.DLLStorageClassDLLImport

	ei.debugPrintfFunc = mod.NewFunc("debugPrintf", lltypes.Void,
		llir.NewParam("fmt", lltypes.I8Ptr))
	ei.debugPrintfFunc.Sig.Variadic = true
	ei.debugPrintfFunc.DLLStorageClass = llenum.DLLStorageClassDLLImport

	ei.initialiseEngineFunc = mod.NewFunc("initialiseEngine", lltypes.I32)
	ei.initialiseEngineFunc.DLLStorageClass = llenum.DLLStorageClassDLLImport

	return ei
}

// GenerateCommandThunk emits a function with the given signature that resolves
// the command's symbol in its owning plugin and forwards all arguments to it.
//
// Plugin functions which return a float actually return its raw bits in a
// pointer-sized integer register: the thunk calls the plugin function as
// returning a dword and reinterprets the bits back into a float through a
// stack slot.
func (ei *EngineInterface) GenerateCommandThunk(command *cmds.Command, fnType *lltypes.FuncType, name string) *llir.Func {
	params := make([]*llir.Param, len(fnType.Params))
	for i, paramType := range fnType.Params {
		params[i] = llir.NewParam(fmt.Sprintf("a%d", i), paramType)
	}

	fn := ei.mod.NewFunc(name, fnType.RetType, params...)
	fn.Linkage = llenum.LinkageInternal

	block := fn.NewBlock("")

	// The plugin-side signature differs only in the float-return adjustment.
	pluginRetType := fnType.RetType
	if isFloatType(pluginRetType) {
		pluginRetType = ei.dwordTy
	}
	pluginFnType := lltypes.NewFunc(pluginRetType, fnType.Params...)
	pluginFnType.Variadic = fnType.Variadic

	commandFunc := ei.getPluginFunction(block, pluginFnType, command.Plugin, command.Symbol, name+"Symbol")

	forwardedArgs := make([]llvalue.Value, len(fn.Params))
	for i, param := range fn.Params {
		forwardedArgs[i] = param
	}
	result := block.NewCall(commandFunc, forwardedArgs...)

	switch {
	case lltypes.Equal(fnType.RetType, lltypes.Void):
		block.NewRet(nil)
	case isFloatType(fnType.RetType):
		storage := block.NewAlloca(ei.dwordTy)
		block.NewStore(result, storage)
		floatStorage := block.NewBitCast(storage, lltypes.NewPointer(lltypes.Float))
		block.NewRet(block.NewLoad(lltypes.Float, floatStorage))
	default:
		block.NewRet(result)
	}

	return fn
}

// GenerateEntryPoint emits the program's `main`: it loads every plugin in
// order (reordering so the core plugin is first), initialises the engine, and
// finally calls the compiled program's entry function.  A missing core plugin
// is unrecoverable.
func (ei *EngineInterface) GenerateEntryPoint(gameEntry *llir.Func, plugins []*cmds.Plugin) error {
	// Ensure DBProCore is loaded first.
	ordered := make([]*cmds.Plugin, len(plugins))
	copy(ordered, plugins)
	for i, plugin := range ordered {
		if plugin.Name == CorePluginName {
			ordered[0], ordered[i] = ordered[i], ordered[0]
			break
		}
	}
	if len(ordered) == 0 || ordered[0].Name != CorePluginName {
		return fmt.Errorf("%s.dll is missing", CorePluginName)
	}

	entryPoint := ei.mod.NewFunc("main", lltypes.I32)

	loadingBlocks := make([]*llir.Block, len(ordered))
	for i, plugin := range ordered {
		loadingBlocks[i] = entryPoint.NewBlock("load" + sanitizeName(plugin.Name))
	}
	initialiseEngineBlock := entryPoint.NewBlock("initialiseEngine")
	failureBlock := entryPoint.NewBlock("failedToInitialiseEngine")
	launchBlock := entryPoint.NewBlock("launchGame")

	// Load each plugin, storing its handle; a null handle aborts.
	for i, plugin := range ordered {
		block := loadingBlocks[i]

		pluginPath := ei.entryString(filepath.Base(plugin.Path), "pluginName."+sanitizeName(plugin.Name))
		handle := block.NewCall(ei.loadPluginFunc, pluginPath)
		block.NewStore(handle, ei.getOrAddPluginHandle(plugin))

		nextBlock := initialiseEngineBlock
		if i < len(ordered)-1 {
			nextBlock = loadingBlocks[i+1]
		}

		loaded := block.NewICmp(llenum.IPredNE, handle, llconst.NewNull(lltypes.I8Ptr))
		block.NewCondBr(loaded, nextBlock, failureBlock)
	}

	initResult := initialiseEngineBlock.NewCall(ei.initialiseEngineFunc)
	initOk := initialiseEngineBlock.NewICmp(llenum.IPredEQ, initResult, llconst.NewInt(lltypes.I32, 0))
	initialiseEngineBlock.NewCondBr(initOk, launchBlock, failureBlock)

	failureBlock.NewRet(llconst.NewInt(lltypes.I32, 1))

	launchBlock.NewCall(gameEntry)
	launchBlock.NewRet(llconst.NewInt(lltypes.I32, 0))

	return nil
}

// -----------------------------------------------------------------------------

// getOrAddPluginHandle returns the module-level global holding the plugin's
// load-time handle, creating it lazily.
func (ei *EngineInterface) getOrAddPluginHandle(plugin *cmds.Plugin) *llir.Global {
	if handle, ok := ei.pluginHandles[plugin.Name]; ok {
		return handle
	}

	handle := ei.mod.NewGlobalDef(sanitizeName(plugin.Name)+"Handle", llconst.NewNull(lltypes.I8Ptr))
	handle.Linkage = llenum.LinkageInternal
	ei.pluginHandles[plugin.Name] = handle
	return handle
}

// getPluginFunction resolves a callable for the symbol within the plugin: the
// plugin's handle is loaded from its global and the symbol address fetched
// through the engine, then cast to the expected function type.
func (ei *EngineInterface) getPluginFunction(block *llir.Block, fnType *lltypes.FuncType, plugin *cmds.Plugin, symbol, symbolStringName string) llvalue.Value {
	handle := block.NewLoad(lltypes.I8Ptr, ei.getOrAddPluginHandle(plugin))
	procAddress := block.NewCall(ei.getFunctionAddressFunc, handle, ei.entryString(symbol, symbolStringName))
	return block.NewBitCast(procAddress, lltypes.NewPointer(fnType))
}

// entryString interns a named null-terminated string global and returns an i8
// pointer to its first character.
func (ei *EngineInterface) entryString(s, name string) llconst.Constant {
	if name == "" {
		name = fmt.Sprintf("estr.%d", ei.stringCounter)
		ei.stringCounter++
	}

	arr := llconst.NewCharArrayFromString(s + "\x00")
	global := ei.mod.NewGlobalDef(name, arr)
	global.Linkage = llenum.LinkageInternal

	zero := llconst.NewInt(lltypes.I32, 0)
	return llconst.NewGetElementPtr(arr.Typ, global, zero, zero)
}

// isFloatType returns whether the LLVM type is the 32-bit float type.
func isFloatType(typ lltypes.Type) bool {
	if ft, ok := typ.(*lltypes.FloatType); ok {
		return ft.Kind == lltypes.FloatKindFloat
	}

	return false
}
