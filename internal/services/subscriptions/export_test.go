package subscriptions

func (s *Service) NotifyWelcomeDone(done chan<- struct{}) {
	s.done = done
}
