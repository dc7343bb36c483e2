package v1alpha1

func StringToProjectStatus(s string) ProjectStatus {
	switch s {
	case string(ProjectStatusPopulated):
		return ProjectStatusPopulated
	case string(ProjectStatusAssessed):
		return ProjectStatusAssessed
	case string(ProjectStatusApproved):
		return ProjectStatusApproved
	case string(ProjectStatusArchived):
		return ProjectStatusArchived
	default:
		return ProjectStatusCreated
	}
}

func StringToMigrationMode(s string) MigrationMode {
	switch s {
	case string(MigrationModeWarmRisky):
		return MigrationModeWarmRisky
	case string(MigrationModeColdRequired):
		return MigrationModeColdRequired
	default:
		return MigrationModeWarm
	}
}

func StringToVMStatus(s string) VMStatus {
	switch s {
	case string(VMStatusAssigned):
		return VMStatusAssigned
	case string(VMStatusInProgress):
		return VMStatusInProgress
	case string(VMStatusMigrated):
		return VMStatusMigrated
	case string(VMStatusFailed):
		return VMStatusFailed
	case string(VMStatusSkipped):
		return VMStatusSkipped
	default:
		return VMStatusNotStarted
	}
}
