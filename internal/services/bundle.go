package services

// Bundle groups the services one process serves.
type Bundle struct {
	Auth        *AuthService
	Expenses    *ExpenseService
	Savings     *SavingService
	Goals       *GoalService
	Rewards     *RewardService
	Reports     *ReportService
	Predictions *PredictionService
}
