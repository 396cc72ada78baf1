package rn487x

import "github.com/golang/glog"

// HardwareReset pulses the reset line and waits for the module to boot.
// Without a Reset pin only the mode is updated.
func (d *Driver) HardwareReset() error {
	glog.V(2).Info("hardware reset")
	d.mode = ModeResetting
	if d.Reset == nil {
		return nil
	}
	if err := d.Reset.Low(); err != nil {
		return err
	}
	d.Clock.Sleep(resetPulse)
	if err := d.Reset.High(); err != nil {
		return err
	}
	d.Clock.Sleep(resetSettle)
	return nil
}

// WakeUp asserts the wake line (RN4871 only).
func (d *Driver) WakeUp() error {
	if d.Wake == nil {
		return nil
	}
	glog.V(2).Info("wake up")
	if err := d.Wake.Low(); err != nil {
		return err
	}
	d.Clock.Sleep(wakePulse)
	return nil
}

// EnterCommandMode sends the escape sequence and waits for the prompt.
func (d *Driver) EnterCommandMode() error {
	d.Clock.Sleep(d.CommandDelay)
	d.flush()
	d.clearBuffer()
	glog.V(2).Infof("SEND %q", cmdEnterCommand)
	if _, err := d.Port.Write([]byte(cmdEnterCommand)); err != nil {
		return err
	}
	if _, err := d.expect(cmdEnterCommand, tokenPrompt, d.Timeout); err != nil {
		return err
	}
	d.mode = ModeCommand
	return nil
}

// ExitCommandMode returns to data mode.
func (d *Driver) ExitCommandMode() error {
	d.flush()
	d.clearBuffer()
	glog.V(2).Infof("SEND %q", cmdExitCommand)
	if _, err := d.Port.Write([]byte(cmdExitCommand)); err != nil {
		return err
	}
	if _, err := d.expect(cmdExitCommand, tokenEnd, d.Timeout); err != nil {
		return err
	}
	d.mode = ModeData
	return nil
}

// Reboot restarts the module and waits for it to settle.
func (d *Driver) Reboot() error {
	d.begin(cmdReboot)
	return d.restart(tokenRebooting)
}

// FactoryReset restores factory settings, which reboots the module.
func (d *Driver) FactoryReset() error {
	d.begin(cmdFactoryReset)
	return d.restart(tokenFactoryReset)
}

func (d *Driver) restart(token string) error {
	if err := d.do(token, d.ResetTimeout); err != nil {
		return err
	}
	d.Clock.Sleep(d.ResetTimeout)
	return nil
}

// Initialize resets the module and brings it to data mode. When the first
// reboot is not acknowledged, command mode is entered and the reboot retried.
func (d *Driver) Initialize() error {
	if err := d.HardwareReset(); err != nil {
		return err
	}
	if err := d.WakeUp(); err != nil {
		return err
	}
	d.clearBuffer()
	d.flush()
	err := d.Reboot()
	if err == nil {
		d.mode = ModeData
		return nil
	}
	glog.V(2).Infof("reboot from data mode failed: %v", err)
	if err = d.EnterCommandMode(); err == nil {
		err = d.Reboot()
	}
	if err != nil {
		d.mode = ModeUnknown
		return err
	}
	d.mode = ModeData
	return nil
}
