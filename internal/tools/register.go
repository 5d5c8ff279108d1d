package tools

// RegisterAll wires every browser_* tool into the registry. Capability
// gating is enforced at lookup time by the registry itself, so gated tools
// are registered unconditionally here.
func RegisterAll(reg *Registry, deps *Deps) {
	reg.Register(NewNavigateTool(deps))
	reg.Register(NewNavigateBackTool(deps))
	reg.Register(NewClickTool(deps))
	reg.Register(NewDragTool(deps))
	reg.Register(NewFileUploadTool(deps))
	reg.Register(NewFillFormTool(deps))
	reg.Register(NewHoverTool(deps))
	reg.Register(NewPressKeyTool(deps))
	reg.Register(NewScrollIntoViewTool(deps))
	reg.Register(NewSelectOptionTool(deps))
	reg.Register(NewTypeTool(deps))
	reg.Register(NewConsoleMessagesTool(deps))
	reg.Register(NewNetworkRequestsTool(deps))
	reg.Register(NewSnapshotTool(deps))
	reg.Register(NewTakeScreenshotTool(deps))
	reg.Register(NewEvaluateTool(deps))
	reg.Register(NewHandleDialogTool(deps))
	reg.Register(NewWaitForTool(deps))
	reg.Register(NewCloseTool(deps))
	reg.Register(NewInstallTool(deps))
	reg.Register(NewResizeTool(deps))
	reg.Register(NewTabsTool(deps))
	reg.Register(NewContextCreateTool(deps))
	reg.Register(NewContextSwitchTool(deps))
	reg.Register(NewContextCloseTool(deps))
	reg.Register(NewContextListTool(deps))
	reg.Register(NewContextSaveStorageTool(deps))

	reg.Register(NewMouseClickXYTool(deps))
	reg.Register(NewMouseMoveXYTool(deps))
	reg.Register(NewMouseDragXYTool(deps))

	reg.Register(NewPDFSaveTool(deps))
}
